package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Preload("Permissions").Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := r.DB.WithContext(ctx).Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).Create(role).Error
}

func (r *GormRepo) SaveRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).Save(role).Error
}

func (r *GormRepo) DeleteRole(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Role{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetRolePermissions replaces the role's permission associations with the
// permissions matching the given names.
func (r *GormRepo) SetRolePermissions(ctx context.Context, role *models.Role, names []string) error {
	var perms []models.Permission
	if len(names) > 0 {
		if err := r.DB.WithContext(ctx).Where("name IN ?", names).Find(&perms).Error; err != nil {
			return err
		}
	}
	return r.DB.WithContext(ctx).Model(role).Association("Permissions").Replace(perms)
}

func (r *GormRepo) PermissionExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.Permission{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// SyncPermissions applies a reconciliation diff in one transaction: stale
// permissions (and their role associations) go away, missing ones are
// inserted. Either both sides commit or neither does.
func (r *GormRepo) SyncPermissions(ctx context.Context, insert []models.Permission, remove []string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(remove) > 0 {
			var stale []models.Permission
			if err := tx.Where("name IN ?", remove).Find(&stale).Error; err != nil {
				return err
			}
			for i := range stale {
				if err := tx.Model(&stale[i]).Association("Roles").Clear(); err != nil {
					return err
				}
			}
			if err := tx.Where("name IN ?", remove).Delete(&models.Permission{}).Error; err != nil {
				return err
			}
		}
		if len(insert) > 0 {
			if err := tx.Create(&insert).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
