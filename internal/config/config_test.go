package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/product-console/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("TOKEN_TTL_MINUTES", "")
	t.Setenv("PERSIST_KEY", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "http://localhost:8081/", c.GetAPIBaseURL())
	require.Equal(t, "http://localhost:8081/auth/refresh", c.GetRefreshURL())
	require.Equal(t, 30, c.GetDefaultTokenTTLMinutes())
	require.Equal(t, "persist:auth", c.GetPersistKey())
	require.Equal(t, config.SessionStoreFile, c.GetSessionStore())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://api.example.com/v1")
	t.Setenv("TOKEN_TTL_MINUTES", "10")

	c := config.New()
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, "https://api.example.com/v1/", c.GetAPIBaseURL())
	require.Equal(t, 10, c.GetDefaultTokenTTLMinutes())
}

func TestNew_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "-4")
	require.Equal(t, 30, config.New().GetDefaultTokenTTLMinutes())

	t.Setenv("TOKEN_TTL_MINUTES", "soon")
	require.Equal(t, 30, config.New().GetDefaultTokenTTLMinutes())
}

func TestLoad_FileUnderEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	err := os.WriteFile(path, []byte("PORT: \"7000\"\nREDIS_DB: \"3\"\nSESSION_STORE: redis\n"), 0600)
	require.NoError(t, err)

	t.Setenv("PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("SESSION_STORE", "memory")

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7000", c.GetPort())
	require.Equal(t, 3, c.GetRedisDB())
	require.Equal(t, config.SessionStoreMemory, c.GetSessionStore())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://b.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))

	t.Setenv("ALLOWED_ORIGINS", "*")
	require.True(t, config.New().GetAllowedOrigins().IsAllowedOrigin("https://anything.example.com"))
}

func TestMockBackendConfig(t *testing.T) {
	t.Setenv("MOCK_JWT_SECRET", "")
	t.Setenv("MOCK_REFRESH_TTL_HOURS", "0")

	c := config.New()
	require.NotEmpty(t, c.GetMockSigningSecret())
	require.Equal(t, 168, c.GetMockRefreshTTLHours())

	t.Setenv("MOCK_JWT_SECRET", "s3cret")
	t.Setenv("MOCK_REFRESH_TTL_HOURS", "2")
	c = config.New()
	require.Equal(t, "s3cret", c.GetMockSigningSecret())
	require.Equal(t, 2, c.GetMockRefreshTTLHours())
}
