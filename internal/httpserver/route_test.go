package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/config"
	"github.com/quizhub/backend/internal/middleware"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/service"
)

// newTestServer wires the full route table, the access guard and a reconciled
// permission registry the same way main does at startup.
func newTestServer(t *testing.T) (*echo.Echo, *repo.GormRepo) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	rp := &repo.GormRepo{DB: db}
	require.NoError(t, rp.DB.Create(&models.Role{Name: "user", Default: true}).Error)

	secret := []byte("test-jwt-secret")
	authz := &service.AuthzService{Repo: rp}
	authSvc := &service.AuthService{Repo: rp, JWTSecret: secret, AccessTTL: 30 * time.Minute}
	quizSvc := &service.QuizService{Repo: rp}
	scoringSvc := &service.ScoringService{Repo: rp}

	unprotected := UnprotectedPaths()
	guard := &middleware.AccessGuard{Repo: rp, Authz: authz, JWTSecret: secret, Unprotected: unprotected}

	e := echo.New()
	Register(e, &Deps{
		Guard:       guard,
		Auth:        &AuthHTTP{Svc: authSvc},
		Users:       &UserHTTP{Repo: rp},
		Roles:       &RoleHTTP{Repo: rp},
		Content:     &ContentHTTP{Repo: rp},
		Questions:   &QuestionHTTP{Repo: rp},
		Choices:     &AnswerChoiceHTTP{Repo: rp},
		Sets:        &QuestionSetHTTP{Repo: rp},
		Sessions:    &SessionHTTP{Svc: quizSvc},
		Responses:   &ResponseHTTP{Repo: rp},
		Groups:      &GroupHTTP{Repo: rp},
		Leaderboard: &LeaderboardHTTP{Svc: scoringSvc},
		Search:      &SearchHTTP{},
	})

	routes := make([]service.RouteInfo, 0, len(e.Routes()))
	for _, rt := range e.Routes() {
		routes = append(routes, service.RouteInfo{Method: rt.Method, Path: rt.Path})
	}
	reconciler := &service.Reconciler{Repo: rp, Unprotected: unprotected}
	_, err = reconciler.Reconcile(t.Context(), routes)
	require.NoError(t, err)

	return e, rp
}

func doRequest(e *echo.Echo, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := doRequest(e, http.MethodPost, "/register", "", map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/login", "", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res["access_token"])
	return res["access_token"]
}

func grantPermissions(t *testing.T, rp *repo.GormRepo, roleName string, perms []string) {
	t.Helper()
	role, err := rp.GetRoleByName(t.Context(), roleName)
	require.NoError(t, err)
	require.NoError(t, rp.SetRolePermissions(t.Context(), role, perms))
}

func TestServer_LoginAccessLogoutFlow(t *testing.T) {
	e, rp := newTestServer(t)
	grantPermissions(t, rp, "user", []string{"read_subjects"})

	token := registerAndLogin(t, e)

	rec := doRequest(e, http.MethodGet, "/subjects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Logout needs nothing beyond the bearer token itself.
	rec = doRequest(e, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Replaying the revoked token is rejected by the guard.
	rec = doRequest(e, http.MethodGet, "/subjects", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token revoked")
}

func TestServer_ReconcileSkipsLogout(t *testing.T) {
	_, rp := newTestServer(t)

	exists, err := rp.PermissionExists(t.Context(), "create_logout")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = rp.PermissionExists(t.Context(), "read_subjects")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestServer_MissingPermissionForbidden(t *testing.T) {
	e, rp := newTestServer(t)
	grantPermissions(t, rp, "user", []string{"read_subjects"})

	token := registerAndLogin(t, e)

	rec := doRequest(e, http.MethodPost, "/subjects", token, map[string]string{"name": "math"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "required permission")
}

func TestServer_SearchDisabledWithoutES(t *testing.T) {
	e, rp := newTestServer(t)
	grantPermissions(t, rp, "user", []string{"read_questions_search"})

	token := registerAndLogin(t, e)

	rec := doRequest(e, http.MethodGet, "/questions/search?q=algebra", token, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "question search disabled")
}
