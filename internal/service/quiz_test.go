package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
)

func seedQuestion(t *testing.T, env *testEnv, text string, correctFirst bool) *models.Question {
	t.Helper()
	q := models.Question{
		Text:       text,
		Difficulty: models.DifficultyEasy,
		AnswerChoices: []models.AnswerChoice{
			{Text: "choice a", IsCorrect: correctFirst},
			{Text: "choice b", IsCorrect: !correctFirst},
		},
	}
	require.NoError(t, env.db.Create(&q).Error)
	return &q
}

func seedQuestionSet(t *testing.T, env *testEnv, name string, questions ...*models.Question) *models.QuestionSet {
	t.Helper()
	set := models.QuestionSet{Name: name, IsPublic: true}
	for _, q := range questions {
		set.Questions = append(set.Questions, *q)
	}
	require.NoError(t, env.db.Create(&set).Error)
	return &set
}

func TestStartSession_DrawsQuestionsFromSets(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	q2 := seedQuestion(t, env, "q2", true)
	q3 := seedQuestion(t, env, "q3", false)
	set := seedQuestionSet(t, env, "basics", q1, q2, q3)

	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, uint(1), session.UserID)
	assert.Len(t, session.Questions, 3)
	assert.Len(t, session.QuestionSets, 1)
	assert.Nil(t, session.CompletedAt)
}

func TestStartSession_RespectsQuestionLimit(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	q2 := seedQuestion(t, env, "q2", true)
	q3 := seedQuestion(t, env, "q3", false)
	set := seedQuestionSet(t, env, "basics", q1, q2, q3)

	limit := 2
	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID, QuestionLimit: &limit}})
	require.NoError(t, err)
	assert.Len(t, session.Questions, 2)
}

func TestStartSession_DeduplicatesAcrossSets(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	shared := seedQuestion(t, env, "shared", true)
	extra := seedQuestion(t, env, "extra", true)
	setA := seedQuestionSet(t, env, "set a", shared)
	setB := seedQuestionSet(t, env, "set b", shared, extra)

	session, err := svc.StartSession(ctx, 1, []SetSelection{
		{QuestionSetID: setA.ID},
		{QuestionSetID: setB.ID},
	})
	require.NoError(t, err)
	assert.Len(t, session.Questions, 2)
	assert.Len(t, session.QuestionSets, 2)
}

func TestStartSession_EmptySets(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	set := seedQuestionSet(t, env, "empty")

	_, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	assert.ErrorIs(t, err, ErrEmptySession)
}

func TestStartSession_UnknownSet(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}

	_, err := svc.StartSession(context.Background(), 1, []SetSelection{{QuestionSetID: 9999}})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAnswerQuestion_GradesChoice(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	q2 := seedQuestion(t, env, "q2", true)
	set := seedQuestionSet(t, env, "basics", q1, q2)

	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	require.NoError(t, err)

	correctChoice := q1.AnswerChoices[0]
	wrongChoice := q2.AnswerChoices[1]

	resp, err := svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, correctChoice.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, uint(1), resp.UserID)

	resp, err = svc.AnswerQuestion(ctx, session.ID, 1, q2.ID, wrongChoice.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsCorrect)
}

func TestAnswerQuestion_Rejections(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	other := seedQuestion(t, env, "other", true)
	set := seedQuestionSet(t, env, "basics", q1)

	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	require.NoError(t, err)

	_, err = svc.AnswerQuestion(ctx, session.ID, 2, q1.ID, q1.AnswerChoices[0].ID)
	assert.ErrorIs(t, err, ErrNotSessionOwner)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, other.ID, other.AnswerChoices[0].ID)
	assert.ErrorIs(t, err, ErrNotInSession)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, other.AnswerChoices[0].ID)
	assert.ErrorIs(t, err, ErrChoiceMismatch)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, q1.AnswerChoices[0].ID)
	require.NoError(t, err)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, q1.AnswerChoices[0].ID)
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
}

func TestCompleteSession_ScoresAndCloses(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	q2 := seedQuestion(t, env, "q2", true)
	set := seedQuestionSet(t, env, "basics", q1, q2)

	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	require.NoError(t, err)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, q1.AnswerChoices[0].ID)
	require.NoError(t, err)
	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q2.ID, q2.AnswerChoices[1].ID)
	require.NoError(t, err)

	completed, score, err := svc.CompleteSession(ctx, session.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	require.NotNil(t, completed.CompletedAt)

	_, _, err = svc.CompleteSession(ctx, session.ID, 1)
	assert.ErrorIs(t, err, ErrSessionCompleted)

	_, err = svc.AnswerQuestion(ctx, session.ID, 1, q1.ID, q1.AnswerChoices[0].ID)
	assert.ErrorIs(t, err, ErrSessionCompleted)
}

func TestCompleteSession_NotOwner(t *testing.T) {
	env := newTestEnv(t)
	svc := &QuizService{Repo: env.rp}
	ctx := context.Background()

	q1 := seedQuestion(t, env, "q1", true)
	set := seedQuestionSet(t, env, "basics", q1)

	session, err := svc.StartSession(ctx, 1, []SetSelection{{QuestionSetID: set.ID}})
	require.NoError(t, err)

	_, _, err = svc.CompleteSession(ctx, session.ID, 2)
	assert.ErrorIs(t, err, ErrNotSessionOwner)
}
