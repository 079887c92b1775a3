package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/service"
	"github.com/quizhub/backend/internal/tokens"
	"github.com/quizhub/backend/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		l.Warn("register_error", "status", 422, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "username, email and password are required")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "username or email already registered")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// Login accepts form-encoded or JSON credentials and returns a bearer token.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
		"token_type":   res.TokenType,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	token, ok := middleware.BearerToken(c)
	if !ok {
		l.Warn("logout_error", "status", 401, "reason", "missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	if err := h.Svc.Logout(ctx, token); err != nil {
		if errors.Is(err, tokens.ErrTokenInvalid) || errors.Is(err, tokens.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}
