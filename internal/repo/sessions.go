package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, session *models.QuizSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *GormRepo) GetSession(ctx context.Context, id uint) (*models.QuizSession, error) {
	var session models.QuizSession
	err := r.DB.WithContext(ctx).
		Preload("Questions").
		Preload("QuestionSets").
		First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormRepo) ListSessions(ctx context.Context, userID uint, offset, limit int) (int64, []models.QuizSession, error) {
	q := r.DB.WithContext(ctx).Model(&models.QuizSession{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	var items []models.QuizSession
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetSessionQuestion(ctx context.Context, sessionID, questionID uint) (*models.SessionQuestion, error) {
	var sq models.SessionQuestion
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		First(&sq).Error
	if err != nil {
		return nil, err
	}
	return &sq, nil
}

func (r *GormRepo) SaveSessionQuestion(ctx context.Context, sq *models.SessionQuestion) error {
	return r.DB.WithContext(ctx).
		Model(&models.SessionQuestion{}).
		Where("session_id = ? AND question_id = ?", sq.SessionID, sq.QuestionID).
		Updates(map[string]any{
			"answered":    sq.Answered,
			"correct":     sq.Correct,
			"answered_at": sq.AnsweredAt,
		}).Error
}

func (r *GormRepo) CompleteSession(ctx context.Context, id uint) (*models.QuizSession, error) {
	session, err := r.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session.CompletedAt = &now
	err = r.DB.WithContext(ctx).
		Model(&models.QuizSession{}).
		Where("id = ?", id).
		Update("completed_at", now).Error
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *GormRepo) DeleteSession(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionSet{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.QuizSession{}, id)
	})
}
