package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
)

type AuthzService struct {
	Repo *repo.GormRepo
}

// PermissionsFor returns the permission names owned by the role. A missing
// role grants nothing, never everything: the empty set, not an error.
func (s *AuthzService) PermissionsFor(ctx context.Context, roleName string) ([]string, error) {
	role, err := s.Repo.GetRoleByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		names = append(names, p.Name)
	}
	return names, nil
}

func (s *AuthzService) HasPermission(ctx context.Context, user *models.User, permission string) (bool, error) {
	perms, err := s.PermissionsFor(ctx, user.Role)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
