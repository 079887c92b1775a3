package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/service"
	"github.com/quizhub/backend/internal/transport"
)

type SessionHTTP struct {
	Svc *service.QuizService
}

func (h *SessionHTTP) StartSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.start")

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req transport.StartSessionRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("start_session_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if len(req.QuestionSets) == 0 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "at least one question set is required")
	}

	selections := make([]service.SetSelection, 0, len(req.QuestionSets))
	for _, qs := range req.QuestionSets {
		selections = append(selections, service.SetSelection{
			QuestionSetID: qs.QuestionSetID,
			QuestionLimit: qs.QuestionLimit,
		})
	}

	session, err := h.Svc.StartSession(ctx, user.ID, selections)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "question set not found")
		case errors.Is(err, service.ErrEmptySession):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "selected question sets contain no questions")
		}
		l.Error("start_session_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot start session")
	}

	l.Info("start_session_success", "session_id", session.ID, "questions", len(session.Questions))
	return c.JSON(http.StatusCreated, session)
}

func (h *SessionHTTP) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	session, err := h.Svc.Repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get session")
	}
	if session.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "session belongs to another user")
	}
	return c.JSON(http.StatusOK, session)
}

func (h *SessionHTTP) GetSessions(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	offset, limit, page := pagination(c)
	total, items, err := h.Svc.Repo.ListSessions(ctx, user.ID, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_sessions_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list sessions")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *SessionHTTP) AnswerQuestion(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.answer")

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.AnswerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("answer_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	response, err := h.Svc.AnswerQuestion(ctx, id, user.ID, req.QuestionID, req.AnswerChoiceID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrNotSessionOwner):
			return echo.NewHTTPError(http.StatusForbidden, "session belongs to another user")
		case errors.Is(err, service.ErrSessionCompleted):
			return echo.NewHTTPError(http.StatusConflict, "session already completed")
		case errors.Is(err, service.ErrNotInSession):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "question is not part of this session")
		case errors.Is(err, service.ErrAlreadyAnswered):
			return echo.NewHTTPError(http.StatusConflict, "question already answered")
		case errors.Is(err, service.ErrChoiceMismatch):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "answer choice does not belong to the question")
		}
		l.Error("answer_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot record answer")
	}

	return c.JSON(http.StatusOK, response)
}

func (h *SessionHTTP) CompleteSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "session.complete")

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	session, score, err := h.Svc.CompleteSession(ctx, id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrNotSessionOwner):
			return echo.NewHTTPError(http.StatusForbidden, "session belongs to another user")
		case errors.Is(err, service.ErrSessionCompleted):
			return echo.NewHTTPError(http.StatusConflict, "session already completed")
		}
		l.Error("complete_session_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot complete session")
	}

	l.Info("complete_session_success", "session_id", session.ID, "score", score)
	return c.JSON(http.StatusOK, echo.Map{
		"session": session,
		"score":   score,
	})
}

func (h *SessionHTTP) DeleteSession(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	session, err := h.Svc.Repo.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get session")
	}
	if session.UserID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "session belongs to another user")
	}

	if err := h.Svc.Repo.DeleteSession(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete session")
	}
	return c.NoContent(http.StatusNoContent)
}
