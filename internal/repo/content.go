package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := r.DB.WithContext(ctx).Preload("Topics").First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *GormRepo) ListSubjects(ctx context.Context, offset, limit int) (int64, []models.Subject, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Subject{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Subject
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateSubject(ctx context.Context, s *models.Subject) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveSubject(ctx context.Context, s *models.Subject) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteSubject(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.Subject{}, id)
}

func (r *GormRepo) GetTopic(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := r.DB.WithContext(ctx).Preload("Subtopics").First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *GormRepo) ListTopics(ctx context.Context, offset, limit int) (int64, []models.Topic, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Topic{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Topic
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateTopic(ctx context.Context, t *models.Topic) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) SaveTopic(ctx context.Context, t *models.Topic) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *GormRepo) DeleteTopic(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.Topic{}, id)
}

// SetTopicSubjects replaces the topic's subject memberships.
func (r *GormRepo) SetTopicSubjects(ctx context.Context, topic *models.Topic, subjectIDs []uint) error {
	var subjects []models.Subject
	if len(subjectIDs) > 0 {
		if err := r.DB.WithContext(ctx).Find(&subjects, subjectIDs).Error; err != nil {
			return err
		}
	}
	return r.DB.WithContext(ctx).Model(topic).Association("Subjects").Replace(subjects)
}

func (r *GormRepo) GetSubtopic(ctx context.Context, id uint) (*models.Subtopic, error) {
	var subtopic models.Subtopic
	if err := r.DB.WithContext(ctx).First(&subtopic, id).Error; err != nil {
		return nil, err
	}
	return &subtopic, nil
}

func (r *GormRepo) ListSubtopics(ctx context.Context, offset, limit int) (int64, []models.Subtopic, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Subtopic{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Subtopic
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateSubtopic(ctx context.Context, s *models.Subtopic) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveSubtopic(ctx context.Context, s *models.Subtopic) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteSubtopic(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.Subtopic{}, id)
}

// SetSubtopicTopics replaces the subtopic's topic memberships.
func (r *GormRepo) SetSubtopicTopics(ctx context.Context, subtopic *models.Subtopic, topicIDs []uint) error {
	var topics []models.Topic
	if len(topicIDs) > 0 {
		if err := r.DB.WithContext(ctx).Find(&topics, topicIDs).Error; err != nil {
			return err
		}
	}
	return r.DB.WithContext(ctx).Model(subtopic).Association("Topics").Replace(topics)
}

func deleteByID(db *gorm.DB, model any, id uint) error {
	res := db.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
