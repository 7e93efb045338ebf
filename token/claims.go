package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
)

// Claims is the payload of a console access token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	UserType int    `json:"userType,omitempty"`
}

// ExpiresAt reads the exp claim of a compact token without verifying its
// signature. Signature validation belongs to the server.
func ExpiresAt(rawToken string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return time.Time{}, errors.Wrap(consoleerrors.ErrInvalidToken, err.Error())
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.Wrap(consoleerrors.ErrInvalidToken, "token missing exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's exp lies before now. A token that
// cannot be decoded counts as expired.
func IsExpired(rawToken string, now time.Time) bool {
	exp, err := ExpiresAt(rawToken)
	if err != nil {
		return true
	}
	return exp.Before(now)
}
