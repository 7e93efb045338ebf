package redisrepo_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/session/redisrepo"
)

func TestRepo_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := redisrepo.Dial(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	key := "persist:auth:test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key) })

	repo := redisrepo.New(client, key)

	_, err = repo.Load(ctx)
	require.ErrorIs(t, err, consoleerrors.ErrSessionNotFound)

	in := session.Session{
		IsAuthenticated:  true,
		AccessToken:      "access",
		RefreshToken:     "refresh",
		TokenTTLMinutes:  30,
		PermittedScreens: []session.ScreenGrant{{ScreenURL: "/dashboard", ScreenName: "Dashboard"}},
	}
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, in.AccessToken, out.AccessToken)
	require.Equal(t, in.PermittedScreens, out.PermittedScreens)
}
