package repo

import (
	"context"
	"time"

	"github.com/quizhub/backend/internal/models"
)

func (r *GormRepo) CreateUserResponse(ctx context.Context, resp *models.UserResponse) error {
	return r.DB.WithContext(ctx).Create(resp).Error
}

func (r *GormRepo) ListUserResponses(ctx context.Context, userID, questionID uint, offset, limit int) (int64, []models.UserResponse, error) {
	q := r.DB.WithContext(ctx).Model(&models.UserResponse{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if questionID != 0 {
		q = q.Where("question_id = ?", questionID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.UserResponse
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// CountCorrectResponses returns the user's correct-answer count, optionally
// restricted to responses at or after the cutoff.
func (r *GormRepo) CountCorrectResponses(ctx context.Context, userID uint, since *time.Time) (int64, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.UserResponse{}).
		Where("user_id = ? AND is_correct = ?", userID, true)
	if since != nil {
		q = q.Where("timestamp >= ?", since)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

type ScoreRow struct {
	UserID uint
	Score  int
}

// AggregateScores groups correct responses by user, optionally bounded by a
// time cutoff and a group membership filter.
func (r *GormRepo) AggregateScores(ctx context.Context, since *time.Time, groupID *uint) ([]ScoreRow, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.UserResponse{}).
		Select("user_responses.user_id AS user_id, COUNT(*) AS score").
		Where("user_responses.is_correct = ?", true).
		Group("user_responses.user_id").
		Order("score DESC")
	if since != nil {
		q = q.Where("user_responses.timestamp >= ?", since)
	}
	if groupID != nil {
		q = q.Joins("JOIN user_groups ON user_groups.user_id = user_responses.user_id").
			Where("user_groups.group_id = ?", *groupID)
	}

	var rows []ScoreRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) SaveLeaderboardEntry(ctx context.Context, entry *models.Leaderboard) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}
