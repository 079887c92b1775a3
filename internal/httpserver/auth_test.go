package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/service"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RevokedToken{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newAuthHandler(t *testing.T) (*AuthHTTP, *repo.GormRepo) {
	t.Helper()
	rp := &repo.GormRepo{DB: InitTestDB(t)}
	require.NoError(t, rp.DB.Create(&models.Role{Name: "user", Default: true}).Error)
	return &AuthHTTP{Svc: &service.AuthService{
		Repo:      rp,
		JWTSecret: []byte("test-jwt-secret"),
		AccessTTL: 30 * time.Minute,
	}}, rp
}

func jsonRequest(t *testing.T, method, path string, payload any) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestRegisterHandler(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	c := e.NewContext(req, rec)

	require.NoError(t, handler.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "test_user", created.Username)
	require.Equal(t, "user", created.Role)
	require.True(t, created.IsActive)
	require.NotEmpty(t, created.ID)
	require.NotContains(t, rec.Body.String(), "password")

	// Duplicate registration is rejected.
	req, rec = jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	err := handler.Register(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
	})
	err := handler.Register(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnprocessableEntity, he.Code)
}

func TestLoginHandler(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	require.NoError(t, handler.Register(e.NewContext(req, rec)))

	req, rec = jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, handler.Login(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res["access_token"])
	require.Equal(t, "bearer", res["token_type"])
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "nobody",
		"password": "password",
	})
	err := handler.Login(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestLogoutHandler(t *testing.T) {
	handler, rp := newAuthHandler(t)
	e := echo.New()

	req, rec := jsonRequest(t, http.MethodPost, "/register", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	require.NoError(t, handler.Register(e.NewContext(req, rec)))

	req, rec = jsonRequest(t, http.MethodPost, "/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, handler.Login(e.NewContext(req, rec)))

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	token := res["access_token"]

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = httptest.NewRecorder()
	require.NoError(t, handler.Logout(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	revoked, err := rp.TokenRevoked(req.Context(), token)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestLogoutHandler_MissingToken(t *testing.T) {
	handler, _ := newAuthHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	err := handler.Logout(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
