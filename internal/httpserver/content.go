package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/transport"
)

// ContentHTTP serves the subject/topic/subtopic hierarchy.
type ContentHTTP struct {
	Repo *repo.GormRepo
}

func (h *ContentHTTP) GetSubjects(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListSubjects(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_subjects_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list subjects")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *ContentHTTP) GetSubject(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	subject, err := h.Repo.GetSubject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subject not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get subject")
	}
	return c.JSON(http.StatusOK, subject)
}

func (h *ContentHTTP) CreateSubject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "content.create_subject")

	var req transport.CreateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	subject := models.Subject{Name: req.Name}
	if err := h.Repo.CreateSubject(ctx, &subject); err != nil {
		l.Error("create_subject_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create subject")
	}
	return c.JSON(http.StatusCreated, subject)
}

func (h *ContentHTTP) PatchSubject(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchSubjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	subject, err := h.Repo.GetSubject(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subject not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get subject")
	}
	if req.Name != nil {
		subject.Name = *req.Name
	}
	if err := h.Repo.SaveSubject(ctx, subject); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update subject")
	}
	return c.JSON(http.StatusOK, subject)
}

func (h *ContentHTTP) DeleteSubject(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteSubject(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subject not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete subject")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) GetTopics(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListTopics(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_topics_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list topics")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *ContentHTTP) GetTopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	topic, err := h.Repo.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "topic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get topic")
	}
	return c.JSON(http.StatusOK, topic)
}

func (h *ContentHTTP) CreateTopic(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CreateTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	topic := models.Topic{Name: req.Name}
	if err := h.Repo.CreateTopic(ctx, &topic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create topic")
	}
	if len(req.SubjectIDs) > 0 {
		if err := h.Repo.SetTopicSubjects(ctx, &topic, req.SubjectIDs); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link subjects")
		}
	}
	return c.JSON(http.StatusCreated, topic)
}

func (h *ContentHTTP) PatchTopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchTopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	topic, err := h.Repo.GetTopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "topic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get topic")
	}
	if req.Name != nil {
		topic.Name = *req.Name
	}
	if err := h.Repo.SaveTopic(ctx, topic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update topic")
	}
	if req.SubjectIDs != nil {
		if err := h.Repo.SetTopicSubjects(ctx, topic, req.SubjectIDs); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link subjects")
		}
	}
	return c.JSON(http.StatusOK, topic)
}

func (h *ContentHTTP) DeleteTopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteTopic(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "topic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete topic")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContentHTTP) GetSubtopics(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListSubtopics(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_subtopics_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list subtopics")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *ContentHTTP) GetSubtopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	subtopic, err := h.Repo.GetSubtopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subtopic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get subtopic")
	}
	return c.JSON(http.StatusOK, subtopic)
}

func (h *ContentHTTP) CreateSubtopic(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.CreateSubtopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	subtopic := models.Subtopic{Name: req.Name}
	if err := h.Repo.CreateSubtopic(ctx, &subtopic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create subtopic")
	}
	if len(req.TopicIDs) > 0 {
		if err := h.Repo.SetSubtopicTopics(ctx, &subtopic, req.TopicIDs); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link topics")
		}
	}
	return c.JSON(http.StatusCreated, subtopic)
}

func (h *ContentHTTP) PatchSubtopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchSubtopicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	subtopic, err := h.Repo.GetSubtopic(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subtopic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get subtopic")
	}
	if req.Name != nil {
		subtopic.Name = *req.Name
	}
	if err := h.Repo.SaveSubtopic(ctx, subtopic); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update subtopic")
	}
	if req.TopicIDs != nil {
		if err := h.Repo.SetSubtopicTopics(ctx, subtopic, req.TopicIDs); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot link topics")
		}
	}
	return c.JSON(http.StatusOK, subtopic)
}

func (h *ContentHTTP) DeleteSubtopic(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteSubtopic(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "subtopic not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete subtopic")
	}
	return c.NoContent(http.StatusNoContent)
}
