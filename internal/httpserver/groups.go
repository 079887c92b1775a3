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

type GroupHTTP struct {
	Repo *repo.GormRepo
}

func (h *GroupHTTP) GetGroups(c echo.Context) error {
	ctx := c.Request().Context()
	offset, limit, page := pagination(c)

	total, items, err := h.Repo.ListGroups(ctx, offset, limit)
	if err != nil {
		logging.FromContext(ctx).Error("get_groups_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list groups")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "meta": listMeta(page, limit, total, offset)})
}

func (h *GroupHTTP) GetGroup(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := parseID(c)
	if err != nil {
		return err
	}

	group, err := h.Repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get group")
	}
	return c.JSON(http.StatusOK, group)
}

func (h *GroupHTTP) CreateGroup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "group.create")

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req transport.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	group := models.Group{Name: req.Name, CreatorID: user.ID}
	if err := h.Repo.CreateGroup(ctx, &group); err != nil {
		l.Error("create_group_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create group")
	}
	if err := h.Repo.AddUserToGroup(ctx, &group, user); err != nil {
		l.Error("create_group_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot join group")
	}
	return c.JSON(http.StatusCreated, group)
}

func (h *GroupHTTP) PatchGroup(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	group, err := h.Repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get group")
	}
	if group.CreatorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "only the group creator can modify the group")
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if err := h.Repo.SaveGroup(ctx, group); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update group")
	}
	return c.JSON(http.StatusOK, group)
}

func (h *GroupHTTP) DeleteGroup(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	group, err := h.Repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get group")
	}
	if group.CreatorID != user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "only the group creator can delete the group")
	}

	if err := h.Repo.DeleteGroup(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete group")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GroupHTTP) JoinGroup(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	group, err := h.Repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get group")
	}

	if err := h.Repo.AddUserToGroup(ctx, group, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot join group")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "joined group"})
}

func (h *GroupHTTP) LeaveGroup(c echo.Context) error {
	ctx := c.Request().Context()

	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	group, err := h.Repo.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "group not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get group")
	}

	if err := h.Repo.RemoveUserFromGroup(ctx, group, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot leave group")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "left group"})
}
