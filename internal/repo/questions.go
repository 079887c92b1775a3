package repo

import (
	"context"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) GetQuestion(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.DB.WithContext(ctx).
		Preload("Subjects").
		Preload("Topics").
		Preload("Subtopics").
		Preload("AnswerChoices").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *GormRepo) ListQuestions(ctx context.Context, offset, limit int) (int64, []models.Question, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.Question
	err := r.DB.WithContext(ctx).
		Preload("AnswerChoices").
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateQuestion(ctx context.Context, q *models.Question) error {
	return r.DB.WithContext(ctx).Create(q).Error
}

func (r *GormRepo) SaveQuestion(ctx context.Context, q *models.Question) error {
	return r.DB.WithContext(ctx).Save(q).Error
}

func (r *GormRepo) DeleteQuestion(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.Question{}, id)
}

// ReplaceQuestionAssociations rebinds the question's subject/topic/subtopic and
// answer-choice links from the given ID lists.
func (r *GormRepo) ReplaceQuestionAssociations(ctx context.Context, q *models.Question, subjectIDs, topicIDs, subtopicIDs, answerChoiceIDs []uint) error {
	db := r.DB.WithContext(ctx)

	if subjectIDs != nil {
		var subjects []models.Subject
		if err := db.Find(&subjects, subjectIDs).Error; err != nil {
			return err
		}
		if err := db.Model(q).Association("Subjects").Replace(subjects); err != nil {
			return err
		}
	}
	if topicIDs != nil {
		var topics []models.Topic
		if err := db.Find(&topics, topicIDs).Error; err != nil {
			return err
		}
		if err := db.Model(q).Association("Topics").Replace(topics); err != nil {
			return err
		}
	}
	if subtopicIDs != nil {
		var subtopics []models.Subtopic
		if err := db.Find(&subtopics, subtopicIDs).Error; err != nil {
			return err
		}
		if err := db.Model(q).Association("Subtopics").Replace(subtopics); err != nil {
			return err
		}
	}
	if answerChoiceIDs != nil {
		var choices []models.AnswerChoice
		if err := db.Find(&choices, answerChoiceIDs).Error; err != nil {
			return err
		}
		if err := db.Model(q).Association("AnswerChoices").Replace(choices); err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepo) GetAnswerChoice(ctx context.Context, id uint) (*models.AnswerChoice, error) {
	var choice models.AnswerChoice
	if err := r.DB.WithContext(ctx).First(&choice, id).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}

func (r *GormRepo) ListAnswerChoices(ctx context.Context, offset, limit int) (int64, []models.AnswerChoice, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.AnswerChoice{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.AnswerChoice
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateAnswerChoice(ctx context.Context, a *models.AnswerChoice) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) SaveAnswerChoice(ctx context.Context, a *models.AnswerChoice) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *GormRepo) DeleteAnswerChoice(ctx context.Context, id uint) error {
	return deleteByID(r.DB.WithContext(ctx), &models.AnswerChoice{}, id)
}
