package refresh_test

import (
	"testing"
	"time"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/token/refresh"
	refreshrepofake "github.com/jrsteele09/product-console/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateReplacesExisting(t *testing.T) {
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	m := refresh.NewManager(repo, time.Hour)

	first, err := m.Create("user-1", 30)
	require.NoError(t, err)
	second, err := m.Create("user-1", 30)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = repo.Get(first.Token)
	require.Error(t, err)
	got, err := repo.GetByUserID("user-1")
	require.NoError(t, err)
	require.Equal(t, second.Token, got.Token)
}

func TestManager_Rotate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), time.Hour, refresh.WithNowFunc(clock))

	rt, err := m.Create("user-1", 15)
	require.NoError(t, err)

	rotated, err := m.Rotate(rt.Token)
	require.NoError(t, err)
	require.NotEqual(t, rt.Token, rotated.Token)
	require.Equal(t, 15, rotated.TTLMinutes)

	t.Run("old token is spent", func(t *testing.T) {
		_, err := m.Rotate(rt.Token)
		require.ErrorIs(t, err, consoleerrors.ErrInvalidRefreshToken)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		now = now.Add(2 * time.Hour)
		_, err := m.Rotate(rotated.Token)
		require.ErrorIs(t, err, consoleerrors.ErrInvalidRefreshToken)
	})
}

func TestManager_Revoke(t *testing.T) {
	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), time.Hour)
	rt, err := m.Create("user-1", 30)
	require.NoError(t, err)

	require.NoError(t, m.Revoke("user-1"))
	_, err = m.Rotate(rt.Token)
	require.Error(t, err)

	require.NoError(t, m.Revoke("nobody"))
}
