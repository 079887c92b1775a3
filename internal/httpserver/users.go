package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/transport"
	"github.com/quizhub/backend/internal/util"
)

type UserHTTP struct {
	Repo *repo.GormRepo
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return uint(id), nil
}

func pagination(c echo.Context) (offset, limit, page int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return offset, limit, page
}

func listMeta(page, limit int, total int64, offset int) echo.Map {
	return echo.Map{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}

func (h *UserHTTP) Me(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	offset, limit, page := pagination(c)
	total, items, err := h.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		l.Error("get_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": listMeta(page, limit, total, offset),
	})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := h.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("get_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) PatchUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.patch_user")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_user_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("patch_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
		if !*req.IsActive {
			// Deactivation invalidates every token minted before now.
			now := time.Now()
			user.TokenBlacklistDate = &now
		}
	}

	if err := h.Repo.SaveUser(ctx, user); err != nil {
		l.Error("patch_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	l.Info("patch_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}
