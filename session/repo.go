package session

import "context"

// Repo mirrors the persisted Session fields into key-value storage so the
// session survives a restart. Load returns errors.ErrSessionNotFound when
// nothing has been saved yet.
type Repo interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
}

// LoginRequest is what the auth backend receives on login.
type LoginRequest struct {
	Username   string
	Password   string
	Role       string
	TTLMinutes int
}

// LoginResponse is a successful login as reported by the auth backend.
type LoginResponse struct {
	AccessToken      string
	RefreshToken     string
	UserProfile      UserProfile
	PermittedScreens []ScreenGrant
}

// AuthBackend performs the login call. Failures that carry an HTTP status
// should expose it through a StatusCode() int method.
type AuthBackend interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}
