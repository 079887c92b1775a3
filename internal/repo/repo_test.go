package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
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
		&models.Subject{},
		&models.Topic{},
		&models.Subtopic{},
		&models.Question{},
		&models.AnswerChoice{},
		&models.QuestionSet{},
		&models.QuizSession{},
		&models.SessionQuestion{},
		&models.SessionSet{},
		&models.UserResponse{},
		&models.Group{},
		&models.Leaderboard{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: InitTestDB(t)}
}

func TestRevokeToken_Idempotent(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, rp.RevokeToken(ctx, "token-abc"))
	require.NoError(t, rp.RevokeToken(ctx, "token-abc"))

	var count int64
	require.NoError(t, rp.DB.Model(&models.RevokedToken{}).Where("token = ?", "token-abc").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTokenRevoked_FreshLookup(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	revoked, err := rp.TokenRevoked(ctx, "token-abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, rp.RevokeToken(ctx, "token-abc"))

	revoked, err = rp.TokenRevoked(ctx, "token-abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = rp.TokenRevoked(ctx, "another-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	user := models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", IsActive: true, Role: "user"}
	require.NoError(t, rp.CreateUser(ctx, &user))

	dup := models.User{Username: "alice", Email: "alice2@example.com", PasswordHash: "x", IsActive: true, Role: "user"}
	err := rp.CreateUser(ctx, &dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestCreateUser_PersistsInactive(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	user := models.User{Username: "carol", Email: "carol@example.com", PasswordHash: "x", IsActive: false, Role: "user"}
	require.NoError(t, rp.CreateUser(ctx, &user))

	reloaded, err := rp.GetUserByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestCreateQuestionSet_PersistsPrivate(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	set := models.QuestionSet{Name: "private drills", IsPublic: false}
	require.NoError(t, rp.CreateQuestionSet(ctx, &set))

	reloaded, err := rp.GetQuestionSet(ctx, set.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPublic)
}

func TestGetDefaultRole(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	_, err := rp.GetDefaultRole(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, rp.CreateRole(ctx, &models.Role{Name: "admin"}))
	require.NoError(t, rp.CreateRole(ctx, &models.Role{Name: "user", Default: true}))

	role, err := rp.GetDefaultRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user", role.Name)
}

func TestSyncPermissions_InsertAndRemove(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, rp.SyncPermissions(ctx, []models.Permission{
		{Name: "read_users"},
		{Name: "create_users"},
	}, nil))

	role := models.Role{Name: "viewer"}
	require.NoError(t, rp.CreateRole(ctx, &role))
	require.NoError(t, rp.SetRolePermissions(ctx, &role, []string{"read_users", "create_users"}))

	require.NoError(t, rp.SyncPermissions(ctx,
		[]models.Permission{{Name: "delete_users"}},
		[]string{"create_users"},
	))

	perms, err := rp.ListPermissions(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"read_users", "delete_users"}, names)

	reloaded, err := rp.GetRoleByName(ctx, "viewer")
	require.NoError(t, err)
	require.Len(t, reloaded.Permissions, 1)
	assert.Equal(t, "read_users", reloaded.Permissions[0].Name)
}

func TestPermissionExists(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	exists, err := rp.PermissionExists(ctx, "read_users")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, rp.SyncPermissions(ctx, []models.Permission{{Name: "read_users"}}, nil))

	exists, err = rp.PermissionExists(ctx, "read_users")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeactivateUser(t *testing.T) {
	rp := newTestRepo(t)
	ctx := context.Background()

	user := models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", IsActive: true, Role: "user"}
	require.NoError(t, rp.CreateUser(ctx, &user))

	require.NoError(t, rp.DeactivateUser(ctx, user.ID))

	reloaded, err := rp.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	assert.ErrorIs(t, rp.DeactivateUser(ctx, 9999), gorm.ErrRecordNotFound)
}
