package repo

import (
	"context"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.DB.WithContext(ctx).Preload("Users").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormRepo) ListGroups(ctx context.Context, offset, limit int) (int64, []models.Group, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Group{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Group
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateGroup(ctx context.Context, g *models.Group) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GormRepo) SaveGroup(ctx context.Context, g *models.Group) error {
	return r.DB.WithContext(ctx).Save(g).Error
}

func (r *GormRepo) DeleteGroup(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.Group{}, id)
}

func (r *GormRepo) AddUserToGroup(ctx context.Context, group *models.Group, user *models.User) error {
	return r.DB.WithContext(ctx).Model(group).Association("Users").Append(user)
}

func (r *GormRepo) RemoveUserFromGroup(ctx context.Context, group *models.Group, user *models.User) error {
	return r.DB.WithContext(ctx).Model(group).Association("Users").Delete(user)
}
