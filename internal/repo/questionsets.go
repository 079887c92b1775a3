package repo

import (
	"context"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) GetQuestionSet(ctx context.Context, id uint) (*models.QuestionSet, error) {
	var set models.QuestionSet
	err := r.DB.WithContext(ctx).
		Preload("Questions").
		Preload("Questions.AnswerChoices").
		First(&set, id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *GormRepo) ListQuestionSets(ctx context.Context, offset, limit int) (int64, []models.QuestionSet, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.QuestionSet{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.QuestionSet
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateQuestionSet(ctx context.Context, set *models.QuestionSet) error {
	return r.DB.WithContext(ctx).Create(set).Error
}

func (r *GormRepo) SaveQuestionSet(ctx context.Context, set *models.QuestionSet) error {
	return r.DB.WithContext(ctx).Save(set).Error
}

func (r *GormRepo) DeleteQuestionSet(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.QuestionSet{}, id)
}

// SetQuestionSetQuestions replaces the set's question membership.
func (r *GormRepo) SetQuestionSetQuestions(ctx context.Context, set *models.QuestionSet, questionIDs []uint) error {
	var questions []models.Question
	if len(questionIDs) > 0 {
		if err := r.DB.WithContext(ctx).Find(&questions, questionIDs).Error; err != nil {
			return err
		}
	}
	return r.DB.WithContext(ctx).Model(set).Association("Questions").Replace(questions)
}
