package service

import (
	"context"
	"errors"
	"time"

	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
)

var ErrBadTimePeriod = errors.New("unknown time period")

type ScoringService struct {
	Repo *repo.GormRepo
}

func periodCutoff(period models.TimePeriod, now time.Time) *time.Time {
	var cutoff time.Time
	switch period {
	case models.PeriodDaily:
		cutoff = now.AddDate(0, 0, -1)
	case models.PeriodWeekly:
		cutoff = now.AddDate(0, 0, -7)
	case models.PeriodMonthly:
		cutoff = now.AddDate(0, 0, -30)
	case models.PeriodYearly:
		cutoff = now.AddDate(0, 0, -365)
	default:
		return nil
	}
	return &cutoff
}

// UserScore is the user's all-time count of correct responses.
func (s *ScoringService) UserScore(ctx context.Context, userID uint) (int, error) {
	total, err := s.Repo.CountCorrectResponses(ctx, userID, nil)
	return int(total), err
}

type LeaderboardEntry struct {
	UserID     uint              `json:"user_id"`
	Score      int               `json:"score"`
	TimePeriod models.TimePeriod `json:"time_period"`
	GroupID    *uint             `json:"group_id,omitempty"`
}

// Leaderboard aggregates correct responses within the period, optionally
// scoped to a group, ordered best first.
func (s *ScoringService) Leaderboard(ctx context.Context, period models.TimePeriod, groupID *uint, limit int) ([]LeaderboardEntry, error) {
	if !period.Valid() {
		return nil, ErrBadTimePeriod
	}

	rows, err := s.Repo.AggregateScores(ctx, periodCutoff(period, time.Now()), groupID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:     row.UserID,
			Score:      row.Score,
			TimePeriod: period,
			GroupID:    groupID,
		})
	}
	return entries, nil
}
