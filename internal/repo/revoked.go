package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizhub/backend/internal/models"
)

// RevokeToken inserts the token into the revocation ledger. Revoking an
// already-revoked token is a no-op, not an error.
func (r *GormRepo) RevokeToken(ctx context.Context, token string) error {
	revoked := models.RevokedToken{
		Token:     token,
		RevokedAt: time.Now(),
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token"}}, DoNothing: true}).
		Create(&revoked).Error
}

// TokenRevoked is a fresh membership lookup on every call; revocations must be
// visible immediately, so there is no caching layer in front of it.
func (r *GormRepo) TokenRevoked(ctx context.Context, token string) (bool, error) {
	var revoked models.RevokedToken
	err := r.DB.WithContext(ctx).Where("token = ?", token).First(&revoked).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
