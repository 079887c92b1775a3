package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type AccessClaims struct {
	jwt.RegisteredClaims
}

// Issue signs an HS256 token carrying the subject, an absolute expiry and a
// fresh JTI. It has no side effects; the revocation ledger is consulted
// separately by the access guard.
func Issue(subject string, ttl time.Duration, secret []byte) (string, error) {
	if subject == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify checks the signature and expiry and returns the embedded claims.
func Verify(tokenStr string, secret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

// Subject is a convenience wrapper for callers that only need the username.
func Subject(tokenStr string, secret []byte) (string, error) {
	claims, err := Verify(tokenStr, secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
