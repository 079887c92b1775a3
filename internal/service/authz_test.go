package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhub/backend/internal/models"
)

func TestPermissionsFor_UnknownRoleIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	svc := &AuthzService{Repo: env.rp}

	perms, err := svc.PermissionsFor(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestHasPermission(t *testing.T) {
	env := newTestEnv(t)
	svc := &AuthzService{Repo: env.rp}
	ctx := context.Background()

	require.NoError(t, env.rp.SyncPermissions(ctx, []models.Permission{
		{Name: "read_users"},
		{Name: "create_users"},
	}, nil))
	role := models.Role{Name: "viewer"}
	require.NoError(t, env.rp.CreateRole(ctx, &role))
	require.NoError(t, env.rp.SetRolePermissions(ctx, &role, []string{"read_users"}))

	user := &models.User{Username: "alice", Role: "viewer"}

	allowed, err := svc.HasPermission(ctx, user, "read_users")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.HasPermission(ctx, user, "create_users")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A role that does not exist fails closed.
	ghost := &models.User{Username: "bob", Role: "ghost"}
	allowed, err = svc.HasPermission(ctx, ghost, "read_users")
	require.NoError(t, err)
	assert.False(t, allowed)
}
