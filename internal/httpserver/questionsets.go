package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/transport"
)

type QuestionSetHTTP struct {
	Repo *repo.GormRepo
}

func (h *QuestionSetHTTP) GetQuestionSets(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListQuestionSets(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_question_sets_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list question sets")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *QuestionSetHTTP) GetQuestionSet(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	set, err := h.Repo.GetQuestionSet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question set not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get question set")
	}
	return c.JSON(http.StatusOK, set)
}

func (h *QuestionSetHTTP) CreateQuestionSet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question_set.create")

	var req transport.CreateQuestionSetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_question_set_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	set := models.QuestionSet{Name: req.Name, IsPublic: true}
	if req.IsPublic != nil {
		set.IsPublic = *req.IsPublic
	}
	if user := middleware.UserFromContext(c); user != nil {
		set.CreatorID = &user.ID
	}
	if err := h.Repo.CreateQuestionSet(ctx, &set); err != nil {
		l.Error("create_question_set_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create question set")
	}
	if len(req.QuestionIDs) > 0 {
		if err := h.Repo.SetQuestionSetQuestions(ctx, &set, req.QuestionIDs); err != nil {
			l.Error("create_question_set_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link questions")
		}
	}

	created, err := h.Repo.GetQuestionSet(ctx, set.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load question set")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *QuestionSetHTTP) PatchQuestionSet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "question_set.patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchQuestionSetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_question_set_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	set, err := h.Repo.GetQuestionSet(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question set not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get question set")
	}

	if req.Name != nil {
		set.Name = *req.Name
	}
	if req.IsPublic != nil {
		set.IsPublic = *req.IsPublic
	}
	if err := h.Repo.SaveQuestionSet(ctx, set); err != nil {
		l.Error("patch_question_set_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update question set")
	}
	if req.QuestionIDs != nil {
		if err := h.Repo.SetQuestionSetQuestions(ctx, set, req.QuestionIDs); err != nil {
			l.Error("patch_question_set_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link questions")
		}
	}

	updated, err := h.Repo.GetQuestionSet(ctx, set.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load question set")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *QuestionSetHTTP) DeleteQuestionSet(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteQuestionSet(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question set not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete question set")
	}
	return c.NoContent(http.StatusNoContent)
}
