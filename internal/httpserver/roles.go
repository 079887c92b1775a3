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

type RoleHTTP struct {
	Repo *repo.GormRepo
}

func (h *RoleHTTP) GetRoles(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.get_roles")

	roles, err := h.Repo.ListRoles(ctx)
	if err != nil {
		l.Error("get_roles_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list roles")
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *RoleHTTP) GetRole(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	role, err := h.Repo.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "role not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get role")
	}
	return c.JSON(http.StatusOK, role)
}

func (h *RoleHTTP) CreateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.create_role")

	var req transport.CreateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_role_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "name is required")
	}

	role := models.Role{
		Name:        req.Name,
		Description: req.Description,
		Default:     req.Default,
	}
	if err := h.Repo.CreateRole(ctx, &role); err != nil {
		l.Error("create_role_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create role")
	}
	if len(req.Permissions) > 0 {
		if err := h.Repo.SetRolePermissions(ctx, &role, req.Permissions); err != nil {
			l.Error("create_role_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot assign permissions")
		}
	}

	created, err := h.Repo.GetRole(ctx, role.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load role")
	}
	l.Info("create_role_success", "role", role.Name)
	return c.JSON(http.StatusCreated, created)
}

func (h *RoleHTTP) PatchRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "role.patch_role")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_role_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	role, err := h.Repo.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "role not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get role")
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.Default != nil {
		role.Default = *req.Default
	}
	if err := h.Repo.SaveRole(ctx, role); err != nil {
		l.Error("patch_role_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update role")
	}
	if req.Permissions != nil {
		if err := h.Repo.SetRolePermissions(ctx, role, req.Permissions); err != nil {
			l.Error("patch_role_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot assign permissions")
		}
	}

	updated, err := h.Repo.GetRole(ctx, role.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load role")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *RoleHTTP) DeleteRole(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Repo.DeleteRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "role not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete role")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPermissions is read-only: the permission table is owned by the
// reconciler, never edited by hand.
func (h *RoleHTTP) GetPermissions(c echo.Context) error {
	ctx := c.Request().Context()

	perms, err := h.Repo.ListPermissions(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list permissions")
	}
	return c.JSON(http.StatusOK, perms)
}
