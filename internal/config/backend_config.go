package config

import "strings"

type BackendConfig interface {
	GetAPIBaseURL() string
	GetRefreshURL() string
	GetLoginRole() string
	GetResponseCacheEnabled() bool
	GetResponseCacheDir() string
}

type Backend struct {
	v values
}

var _ BackendConfig = Backend{}

// GetAPIBaseURL returns the REST API root. It always ends with a slash so
// relative endpoint paths like "auth/login" resolve underneath it.
func (b Backend) GetAPIBaseURL() string {
	base := b.v.get("API_BASE_URL", "http://localhost:8081/")
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

// GetRefreshURL returns the token refresh endpoint, defaulting to auth/refresh under the API root.
func (b Backend) GetRefreshURL() string {
	return b.v.get("REFRESH_URL", b.GetAPIBaseURL()+"auth/refresh")
}

// GetLoginRole is sent as the login role hint for deployments that require one.
func (b Backend) GetLoginRole() string {
	return b.v.get("LOGIN_ROLE", "")
}

func (b Backend) GetResponseCacheEnabled() bool {
	return b.v.getBool("RESPONSE_CACHE", false)
}

// GetResponseCacheDir selects a disk cache. Empty keeps the cache in memory.
func (b Backend) GetResponseCacheDir() string {
	return b.v.get("RESPONSE_CACHE_DIR", "")
}

// MockBackendConfig configures the bundled development backend.
type MockBackendConfig interface {
	GetMockSigningSecret() string
	GetMockRefreshTTLHours() int
}

var _ MockBackendConfig = Backend{}

func (b Backend) GetMockSigningSecret() string {
	return b.v.get("MOCK_JWT_SECRET", "dev-secret-change-me")
}

func (b Backend) GetMockRefreshTTLHours() int {
	hours := b.v.getInt("MOCK_REFRESH_TTL_HOURS", 168)
	if hours <= 0 {
		return 168
	}
	return hours
}
