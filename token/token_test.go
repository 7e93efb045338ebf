package token_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/token"
)

const secret = "test-secret"

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestExpiresAt(t *testing.T) {
	c := token.NewCreator(token.NewHMACSigner(secret), token.WithNowFunc(fixedNow))
	raw, err := c.CreateAccessToken("user-1", "emilys", 1, 30*time.Minute)
	require.NoError(t, err)

	exp, err := token.ExpiresAt(raw)
	require.NoError(t, err)
	require.Equal(t, fixedNow().Add(30*time.Minute).Unix(), exp.Unix())
}

func TestIsExpired(t *testing.T) {
	c := token.NewCreator(token.NewHMACSigner(secret), token.WithNowFunc(fixedNow))
	raw, err := c.CreateAccessToken("user-1", "emilys", 1, time.Minute)
	require.NoError(t, err)

	t.Run("before exp", func(t *testing.T) {
		require.False(t, token.IsExpired(raw, fixedNow()))
	})

	t.Run("after exp", func(t *testing.T) {
		require.True(t, token.IsExpired(raw, fixedNow().Add(2*time.Minute)))
	})

	t.Run("garbage counts as expired", func(t *testing.T) {
		require.True(t, token.IsExpired("not-a-token", fixedNow()))
	})

	t.Run("missing exp counts as expired", func(t *testing.T) {
		noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte(secret))
		require.NoError(t, err)
		require.True(t, token.IsExpired(noExp, fixedNow()))
	})

	t.Run("signature is not checked", func(t *testing.T) {
		other := token.NewCreator(token.NewHMACSigner("another-secret"), token.WithNowFunc(fixedNow))
		raw, err := other.CreateAccessToken("user-2", "michaelw", 2, time.Hour)
		require.NoError(t, err)
		require.False(t, token.IsExpired(raw, fixedNow()))
	})
}

func TestCreator_Verify(t *testing.T) {
	c := token.NewCreator(token.NewHMACSigner(secret), token.WithNowFunc(fixedNow))
	raw, err := c.CreateAccessToken("user-1", "emilys", 1, time.Minute)
	require.NoError(t, err)

	claims, err := c.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "emilys", claims.Username)
	require.Equal(t, 1, claims.UserType)
	require.NotEmpty(t, claims.ID)

	t.Run("wrong secret", func(t *testing.T) {
		other := token.NewCreator(token.NewHMACSigner("nope"), token.WithNowFunc(fixedNow))
		_, err := other.Verify(raw)
		require.ErrorIs(t, err, consoleerrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := token.NewCreator(token.NewHMACSigner(secret), token.WithNowFunc(func() time.Time {
			return fixedNow().Add(time.Hour)
		}))
		_, err := later.Verify(raw)
		require.ErrorIs(t, err, consoleerrors.ErrTokenExpired)
	})
}
