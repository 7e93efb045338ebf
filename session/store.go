package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/internal/metrics"
)

// Store is the single source of truth for authentication state. Its methods
// are the only way to change that state, and each change is applied under one
// lock so no partial state is ever observable.
type Store struct {
	mu         sync.RWMutex
	state      Session
	backend    AuthBackend
	repo       Repo
	defaultTTL int
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithRepo persists every state change through repo.
func WithRepo(repo Repo) StoreOption {
	return func(s *Store) {
		s.repo = repo
	}
}

// WithDefaultTTL sets the token lifetime requested when a login does not name one.
func WithDefaultTTL(minutes int) StoreOption {
	return func(s *Store) {
		s.defaultTTL = minutes
	}
}

func WithMetrics(m *metrics.Metrics) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty Store that logs in through backend.
func NewStore(backend AuthBackend, options ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, errors.New("[NewStore] auth backend is required")
	}

	s := &Store{
		backend:    backend,
		defaultTTL: DefaultTokenTTLMinutes,
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = DefaultTokenTTLMinutes
	}
	s.state = Empty(s.defaultTTL)
	return s, nil
}

// Rehydrate replaces the in-memory state with whatever the repo holds.
// A repo with nothing saved leaves the Store empty.
func (s *Store) Rehydrate(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	loaded, err := s.repo.Load(ctx)
	if err != nil {
		if consoleerrors.Is(err, consoleerrors.ErrSessionNotFound) {
			return nil
		}
		return errors.Wrap(err, "[Store.Rehydrate] repo.Load")
	}

	restored := loaded.Clone()
	restored.normalise(s.defaultTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = restored

	s.logger.Debug().
		Bool("authenticated", restored.IsAuthenticated).
		Str("username", restored.UserProfile.Username).
		Msg("session rehydrated")
	return nil
}

// Login authenticates against the backend. TTLMinutes <= 0 uses the Store's
// default. On failure the session stays unauthenticated, existing tokens are
// left alone and LastError holds a user facing message; the returned error is
// an *AuthError with the same message.
//
// Overlapping Login calls are not serialised here. Callers must not start a
// second login while one is in flight.
func (s *Store) Login(ctx context.Context, req LoginRequest) (UserProfile, error) {
	if req.TTLMinutes <= 0 {
		req.TTLMinutes = s.defaultTTL
	}

	s.mu.Lock()
	s.state.Loading = true
	s.state.LastError = ""
	s.mu.Unlock()

	resp, err := s.backend.Login(ctx, req)
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = errors.New("login response carried no access token")
	}
	if err != nil {
		authErr := newAuthError(err)

		s.mu.Lock()
		s.state.Loading = false
		s.state.LastError = authErr.Message
		s.mu.Unlock()

		s.metrics.Login(false)
		s.logger.Warn().
			Err(err).
			Str("username", req.Username).
			Int("status", authErr.Status).
			Msg("login failed")
		return UserProfile{}, authErr
	}

	screens := make([]ScreenGrant, len(resp.PermittedScreens))
	copy(screens, resp.PermittedScreens)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAuthenticated = true
	s.state.Loading = false
	s.state.LastError = ""
	s.state.AccessToken = resp.AccessToken
	s.state.RefreshToken = resp.RefreshToken
	s.state.TokenTTLMinutes = req.TTLMinutes
	s.state.UserProfile = resp.UserProfile
	s.state.PermittedScreens = screens
	s.persistLocked(ctx)

	s.metrics.Login(true)
	s.logger.Info().
		Str("username", resp.UserProfile.Username).
		Int("screens", len(screens)).
		Msg("login succeeded")
	return resp.UserProfile, nil
}

// Logout resets the session to its empty state. It never fails and calling
// it while logged out simply re-asserts the empty state.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasAuthenticated := s.state.IsAuthenticated
	s.state = Empty(s.defaultTTL)
	s.persistLocked(context.Background())

	s.metrics.Logout()
	if wasAuthenticated {
		s.logger.Info().Msg("session logged out")
	}
}

// RefreshTokens installs a freshly issued token pair. The profile and
// permitted screens are left untouched.
func (s *Store) RefreshTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsAuthenticated = true
	s.state.AccessToken = accessToken
	s.state.RefreshToken = refreshToken
	s.persistLocked(context.Background())

	s.logger.Debug().Msg("session tokens refreshed")
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Tokens returns the current access and refresh tokens. Empty means absent.
func (s *Store) Tokens() (accessToken, refreshToken string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken, s.state.RefreshToken
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *Store) PermittedScreens() []ScreenGrant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	screens := make([]ScreenGrant, len(s.state.PermittedScreens))
	copy(screens, s.state.PermittedScreens)
	return screens
}

func (s *Store) Profile() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserProfile
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LastError
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// persistLocked writes the state through to the repo. Persistence failures are
// logged, not returned: the in-memory state is authoritative.
func (s *Store) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, s.state.Clone()); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
	}
}
