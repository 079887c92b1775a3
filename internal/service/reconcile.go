package service

import (
	"context"
	"strings"

	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
)

// RouteInfo is a method/path pair snapshotted from the live router.
type RouteInfo struct {
	Method string
	Path   string
}

var methodActions = map[string]string{
	"GET":    "read",
	"POST":   "create",
	"PUT":    "update",
	"DELETE": "delete",
}

// PermissionName canonicalizes a route into its permission name:
// {action}_{path with separators and params flattened to underscores}.
// /question-sets/:id + PUT becomes update_question_sets_id. Returns false for
// methods outside the CRUD verb map.
func PermissionName(method, path string) (string, bool) {
	action, ok := methodActions[method]
	if !ok {
		return "", false
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "*" {
			continue
		}
		seg = strings.TrimPrefix(seg, ":")
		seg = strings.ReplaceAll(seg, "-", "_")
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "", false
	}
	return action + "_" + strings.Join(parts, "_"), true
}

type Reconciler struct {
	Repo *repo.GormRepo
	// Unprotected paths are excluded from permission derivation; requests to
	// them bypass the access guard entirely.
	Unprotected map[string]bool
}

// Reconcile diffs the permission table against the permissions derived from
// the given routes: stale names are deleted, missing names inserted, in one
// transaction. Running it twice with the same routes is a fixed point.
func (r *Reconciler) Reconcile(ctx context.Context, routes []RouteInfo) ([]string, error) {
	l := logging.FromContext(ctx).With("svc", "permissions.reconcile")

	derived := make(map[string]bool)
	for _, route := range routes {
		if r.Unprotected[route.Path] {
			continue
		}
		name, ok := PermissionName(route.Method, route.Path)
		if !ok {
			continue
		}
		derived[name] = true
	}

	stored, err := r.Repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	storedNames := make(map[string]bool, len(stored))
	for _, p := range stored {
		storedNames[p.Name] = true
	}

	var insert []models.Permission
	for name := range derived {
		if !storedNames[name] {
			insert = append(insert, models.Permission{Name: name})
		}
	}
	var remove []string
	for name := range storedNames {
		if !derived[name] {
			remove = append(remove, name)
		}
	}

	if len(insert) > 0 || len(remove) > 0 {
		if err := r.Repo.SyncPermissions(ctx, insert, remove); err != nil {
			return nil, err
		}
	}
	l.Info("permissions_reconciled", "derived", len(derived), "inserted", len(insert), "deleted", len(remove))

	names := make([]string, 0, len(derived))
	for name := range derived {
		names = append(names, name)
	}
	return names, nil
}
