package filerepo_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/session/filerepo"
)

func TestRepo_LoadMissing(t *testing.T) {
	repo, err := filerepo.New(filepath.Join(t.TempDir(), "session.json"), "persist:auth")
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, consoleerrors.ErrSessionNotFound)
}

func TestRepo_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo, err := filerepo.New(path, "persist:auth")
	require.NoError(t, err)

	in := session.Session{
		IsAuthenticated:  true,
		AccessToken:      "access",
		RefreshToken:     "refresh",
		TokenTTLMinutes:  45,
		UserProfile:      session.UserProfile{Username: "emilys"},
		PermittedScreens: []session.ScreenGrant{{ScreenURL: "/products", ScreenName: "Products"}},
		LastError:        "not persisted",
	}
	require.NoError(t, repo.Save(context.Background(), in))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "access", out.AccessToken)
	require.Equal(t, 45, out.TokenTTLMinutes)
	require.Equal(t, in.PermittedScreens, out.PermittedScreens)
	require.Empty(t, out.LastError)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "persist:auth")
}

func TestRepo_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"persist:other": {"x": 1}}`), 0600))

	repo, err := filerepo.New(path, "persist:auth")
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, consoleerrors.ErrSessionNotFound)

	require.NoError(t, repo.Save(context.Background(), session.Empty(30)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "persist:other")
	require.Contains(t, doc, "persist:auth")
}

func TestRepo_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	repo, err := filerepo.New(path, "persist:auth")
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, consoleerrors.ErrSessionNotFound)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := filerepo.New(filepath.Join(t.TempDir(), "s.json"), "")
	require.Error(t, err)
}
