package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/mykafka"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/service/search"
	"github.com/quizhub/backend/internal/transport"
)

type QuestionHTTP struct {
	Repo     *repo.GormRepo
	ES       *elasticsearch.Client
	ESIndex  string
	Producer *mykafka.Producer
}

func (h *QuestionHTTP) GetQuestions(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListQuestions(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_questions_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list questions")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *QuestionHTTP) GetQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	question, err := h.Repo.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get question")
	}
	return c.JSON(http.StatusOK, question)
}

func (h *QuestionHTTP) CreateQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question.create_question")

	var req transport.CreateQuestionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_question_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text is required")
	}
	difficulty := models.Difficulty(req.Difficulty)
	if !difficulty.Valid() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown difficulty")
	}

	question := models.Question{
		Text:       req.Text,
		Difficulty: difficulty,
	}
	if user := middleware.UserFromContext(c); user != nil {
		question.CreatorID = &user.ID
	}
	if err := h.Repo.CreateQuestion(ctx, &question); err != nil {
		l.Error("create_question_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create question")
	}
	err := h.Repo.ReplaceQuestionAssociations(ctx, &question,
		req.SubjectIDs, req.TopicIDs, req.SubtopicIDs, req.AnswerChoiceIDs)
	if err != nil {
		l.Error("create_question_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot link question")
	}

	created, err := h.Repo.GetQuestion(ctx, question.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load question")
	}

	h.indexQuestion(ctx, created)
	h.publishQuestionEvent(ctx, "question_created", created)

	l.Info("create_question_success", "question_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *QuestionHTTP) PatchQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question.patch_question")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchQuestionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_question_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	question, err := h.Repo.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get question")
	}

	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Difficulty != nil {
		difficulty := models.Difficulty(*req.Difficulty)
		if !difficulty.Valid() {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown difficulty")
		}
		question.Difficulty = difficulty
	}
	if err := h.Repo.SaveQuestion(ctx, question); err != nil {
		l.Error("patch_question_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update question")
	}
	err = h.Repo.ReplaceQuestionAssociations(ctx, question,
		req.SubjectIDs, req.TopicIDs, req.SubtopicIDs, req.AnswerChoiceIDs)
	if err != nil {
		l.Error("patch_question_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot link question")
	}

	updated, err := h.Repo.GetQuestion(ctx, question.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load question")
	}

	h.indexQuestion(ctx, updated)

	return c.JSON(http.StatusOK, updated)
}

func (h *QuestionHTTP) DeleteQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question.delete_question")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteQuestion(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		l.Error("delete_question_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete question")
	}

	if h.ES != nil {
		if err := search.DeleteQuestion(ctx, h.ES, h.ESIndex, id); err != nil {
			l.Error("es_delete_error", "question_id", id, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *QuestionHTTP) indexQuestion(ctx context.Context, q *models.Question) {
	if h.ES == nil {
		return
	}
	if err := search.IndexQuestion(ctx, h.ES, h.ESIndex, q); err != nil {
		logging.FromContext(ctx).Error("es_index_error", "question_id", q.ID, "error", err)
	}
}

func (h *QuestionHTTP) publishQuestionEvent(ctx context.Context, eventType string, q *models.Question) {
	if h.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":        eventType,
		"question_id": q.ID,
		"difficulty":  q.Difficulty,
	}
	if err := h.Producer.PublishEvent(pubCtx, mykafka.TopicQuizEvents, fmt.Sprint(q.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", mykafka.TopicQuizEvents, "error", err)
	}
}

type AnswerChoiceHTTP struct {
	Repo *repo.GormRepo
}

func (h *AnswerChoiceHTTP) GetAnswerChoices(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListAnswerChoices(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_answer_choices_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list answer choices")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *AnswerChoiceHTTP) GetAnswerChoice(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	choice, err := h.Repo.GetAnswerChoice(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "answer choice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get answer choice")
	}
	return c.JSON(http.StatusOK, choice)
}

func (h *AnswerChoiceHTTP) CreateAnswerChoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CreateAnswerChoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "text is required")
	}

	choice := models.AnswerChoice{
		Text:        req.Text,
		IsCorrect:   req.IsCorrect,
		Explanation: req.Explanation,
	}
	if err := h.Repo.CreateAnswerChoice(ctx, &choice); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create answer choice")
	}
	return c.JSON(http.StatusCreated, choice)
}

func (h *AnswerChoiceHTTP) PatchAnswerChoice(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchAnswerChoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	choice, err := h.Repo.GetAnswerChoice(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "answer choice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get answer choice")
	}

	if req.Text != nil {
		choice.Text = *req.Text
	}
	if req.IsCorrect != nil {
		choice.IsCorrect = *req.IsCorrect
	}
	if req.Explanation != nil {
		choice.Explanation = *req.Explanation
	}
	if err := h.Repo.SaveAnswerChoice(ctx, choice); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update answer choice")
	}
	return c.JSON(http.StatusOK, choice)
}

func (h *AnswerChoiceHTTP) DeleteAnswerChoice(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteAnswerChoice(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "answer choice not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete answer choice")
	}
	return c.NoContent(http.StatusNoContent)
}
