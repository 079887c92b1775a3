package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/mykafka"
	"github.com/quizhub/backend/internal/repo"
)

var (
	ErrNotSessionOwner  = errors.New("session belongs to another user")
	ErrSessionCompleted = errors.New("session already completed")
	ErrAlreadyAnswered  = errors.New("question already answered in this session")
	ErrNotInSession     = errors.New("question is not part of this session")
	ErrChoiceMismatch   = errors.New("answer choice does not belong to the question")
	ErrEmptySession     = errors.New("selected question sets contain no questions")
)

type QuizService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

// SetSelection picks a question set for a session, with an optional cap on how
// many of its questions are drawn.
type SetSelection struct {
	QuestionSetID uint
	QuestionLimit *int
}

// StartSession draws a shuffled selection of questions from the chosen sets
// and persists the session with its question slots.
func (s *QuizService) StartSession(ctx context.Context, userID uint, selections []SetSelection) (*models.QuizSession, error) {
	l := logging.FromContext(ctx).With("svc", "quiz.start_session", "user_id", userID)

	seen := make(map[uint]bool)
	var sessionQuestions []models.SessionQuestion
	var sessionSets []models.SessionSet

	for _, sel := range selections {
		set, err := s.Repo.GetQuestionSet(ctx, sel.QuestionSetID)
		if err != nil {
			return nil, err
		}

		questionIDs := make([]uint, 0, len(set.Questions))
		for _, q := range set.Questions {
			questionIDs = append(questionIDs, q.ID)
		}
		rand.Shuffle(len(questionIDs), func(i, j int) {
			questionIDs[i], questionIDs[j] = questionIDs[j], questionIDs[i]
		})
		if sel.QuestionLimit != nil && *sel.QuestionLimit >= 0 && *sel.QuestionLimit < len(questionIDs) {
			questionIDs = questionIDs[:*sel.QuestionLimit]
		}

		for _, id := range questionIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			sessionQuestions = append(sessionQuestions, models.SessionQuestion{QuestionID: id})
		}
		sessionSets = append(sessionSets, models.SessionSet{
			QuestionSetID: set.ID,
			QuestionLimit: sel.QuestionLimit,
		})
	}

	if len(sessionQuestions) == 0 {
		return nil, ErrEmptySession
	}

	session := models.QuizSession{
		UserID:       userID,
		StartedAt:    time.Now(),
		Questions:    sessionQuestions,
		QuestionSets: sessionSets,
	}
	if err := s.Repo.CreateSession(ctx, &session); err != nil {
		l.Error("start_session_failed", "error", err)
		return nil, err
	}
	return &session, nil
}

// AnswerQuestion grades the chosen answer against the question's choices,
// records the user response and marks the session slot answered.
func (s *QuizService) AnswerQuestion(ctx context.Context, sessionID, userID, questionID, answerChoiceID uint) (*models.UserResponse, error) {
	session, err := s.Repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	if session.CompletedAt != nil {
		return nil, ErrSessionCompleted
	}

	sq, err := s.Repo.GetSessionQuestion(ctx, sessionID, questionID)
	if err != nil {
		return nil, ErrNotInSession
	}
	if sq.Answered {
		return nil, ErrAlreadyAnswered
	}

	question, err := s.Repo.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	var chosen *models.AnswerChoice
	for i := range question.AnswerChoices {
		if question.AnswerChoices[i].ID == answerChoiceID {
			chosen = &question.AnswerChoices[i]
			break
		}
	}
	if chosen == nil {
		return nil, ErrChoiceMismatch
	}

	now := time.Now()
	correct := chosen.IsCorrect
	sq.Answered = true
	sq.Correct = &correct
	sq.AnsweredAt = &now
	if err := s.Repo.SaveSessionQuestion(ctx, sq); err != nil {
		return nil, err
	}

	response := models.UserResponse{
		UserID:         userID,
		QuestionID:     questionID,
		AnswerChoiceID: answerChoiceID,
		IsCorrect:      correct,
		Timestamp:      now,
	}
	if err := s.Repo.CreateUserResponse(ctx, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CompleteSession closes the session and publishes its score.
func (s *QuizService) CompleteSession(ctx context.Context, sessionID, userID uint) (*models.QuizSession, int, error) {
	session, err := s.Repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	if session.UserID != userID {
		return nil, 0, ErrNotSessionOwner
	}
	if session.CompletedAt != nil {
		return nil, 0, ErrSessionCompleted
	}

	session, err = s.Repo.CompleteSession(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	score := 0
	for _, sq := range session.Questions {
		if sq.Correct != nil && *sq.Correct {
			score++
		}
	}

	// Snapshot the user's running all-time score so leaderboard history
	// survives response pruning.
	if total, err := s.Repo.CountCorrectResponses(ctx, userID, nil); err != nil {
		logging.FromContext(ctx).Error("leaderboard_snapshot_error", "user_id", userID, "error", err)
	} else {
		entry := models.Leaderboard{
			UserID:     userID,
			Score:      int(total),
			TimePeriod: models.PeriodAllTime,
			Timestamp:  time.Now(),
		}
		if err := s.Repo.SaveLeaderboardEntry(ctx, &entry); err != nil {
			logging.FromContext(ctx).Error("leaderboard_snapshot_error", "user_id", userID, "error", err)
		}
	}

	if s.Producer != nil {
		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":       "session_completed",
			"session_id": session.ID,
			"user_id":    session.UserID,
			"score":      score,
			"questions":  len(session.Questions),
		}
		if err := s.Producer.PublishEvent(pubCtx, mykafka.TopicQuizEvents, fmt.Sprint(session.ID), event); err != nil {
			logging.FromContext(ctx).Error("kafka_publish_error", "topic", mykafka.TopicQuizEvents, "error", err)
		}
	}
	return session, score, nil
}
