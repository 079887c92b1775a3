package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/hash"
	"github.com/quizhub/backend/internal/logging"
	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/mykafka"
	"github.com/quizhub/backend/internal/repo"
	"github.com/quizhub/backend/internal/tokens"
)

// ErrAuthenticationFailed covers unknown username, wrong password and inactive
// user alike, so callers cannot probe which of the three happened.
var ErrAuthenticationFailed = errors.New("authentication failed")

var ErrConflict = errors.New("already registered")

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
	Producer  *mykafka.Producer
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrAuthenticationFailed
	}
	if !user.IsActive {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrAuthenticationFailed) {
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			return nil, err
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	accessToken, err := tokens.Issue(user.Username, s.AccessTTL, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(s.AccessTTL),
	}, nil
}

// Logout inserts the presented token into the revocation ledger. The token
// must still verify; revoking it twice is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := tokens.Verify(token, s.JWTSecret)
	if err != nil {
		l.Warn("logout_failed", "status", 401, "error", err)
		return err
	}

	if err := s.Repo.RevokeToken(ctx, token); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke token", "error", err)
		return err
	}

	s.publish(ctx, mykafka.TopicUserEvents, claims.Subject, map[string]any{
		"type":     "user_logged_out",
		"username": claims.Subject,
	})
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		l.Warn("register_failed", "status", 422, "reason", "email already registered")
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	if role == "" {
		defaultRole, err := s.Repo.GetDefaultRole(ctx)
		if err != nil {
			l.Error("register_failed", "status", 500, "reason", "no default role", "error", err)
			return nil, err
		}
		role = defaultRole.Name
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		IsActive:     true,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_failed", "status", 422, "reason", "username already registered")
			return nil, ErrConflict
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})
	return &user, nil
}

// publish is best effort: event delivery failures are logged, never surfaced
// to the request.
func (s *AuthService) publish(ctx context.Context, topic, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", topic, "error", err)
	}
}
