package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/backend/internal/hash"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func newAuthService(t *testing.T) (*AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	svc := &AuthService{
		Repo:      env.rp,
		JWTSecret: testSecret,
		AccessTTL: 30 * time.Minute,
	}
	return svc, env
}

func seedUser(t *testing.T, env *testEnv, username, password string, active bool) *models.User {
	t.Helper()
	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pwHash,
		IsActive:     active,
		Role:         "user",
	}
	require.NoError(t, env.db.Create(&user).Error)
	return &user
}

func TestAuthenticate_Success(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	seedUser(t, env, "alice", "Secret123", true)

	user, err := svc.Authenticate(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

// Unknown username, wrong password and inactive account must be
// indistinguishable to the caller.
func TestAuthenticate_UniformFailure(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	seedUser(t, env, "alice", "Secret123", true)
	seedUser(t, env, "carol", "Secret123", false)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "Secret123"},
		{"wrong password", "alice", "WrongPass"},
		{"inactive user", "carol", "Secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := svc.Authenticate(ctx, tc.username, tc.password)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
		})
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	seedUser(t, env, "alice", "Secret123", true)

	res, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "bearer", res.TokenType)
	require.NotEmpty(t, res.AccessToken)

	claims, err := tokens.Verify(res.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(time.Now()))
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	seedUser(t, env, "alice", "Secret123", true)

	res, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.AccessToken))

	revoked, err := env.rp.TokenRevoked(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice is a no-op.
	require.NoError(t, svc.Logout(ctx, res.AccessToken))
}

func TestLogout_InvalidToken(t *testing.T) {
	svc, _ := newAuthService(t)
	err := svc.Logout(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, tokens.ErrTokenInvalid)
}

func TestRegister_AssignsDefaultRole(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, env.db.Create(&models.Role{Name: "student", Default: true}).Error)

	user, err := svc.Register(ctx, "dave", "dave@example.com", "Secret123", "")
	require.NoError(t, err)
	assert.Equal(t, "student", user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Secret123", user.PasswordHash)
}

func TestRegister_Conflicts(t *testing.T) {
	svc, env := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, env.db.Create(&models.Role{Name: "student", Default: true}).Error)

	_, err := svc.Register(ctx, "dave", "dave@example.com", "Secret123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dave", "other@example.com", "Secret123", "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, "other", "dave@example.com", "Secret123", "")
	assert.ErrorIs(t, err, ErrConflict)
}
