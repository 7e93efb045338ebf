// Package authenticator attaches the session's bearer token to outgoing
// requests, refreshing an expired access token first when it can.
package authenticator

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	consoleerrors "github.com/jrsteele09/product-console/internal/errors"
	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/jrsteele09/product-console/token"
)

// SessionReader exposes the current token pair. Empty strings mean absent.
type SessionReader interface {
	Tokens() (accessToken, refreshToken string)
}

// Session is the part of the session store the authenticator drives.
type Session interface {
	SessionReader
	RefreshTokens(accessToken, refreshToken string)
	Logout()
}

// RefreshFunc exchanges a refresh token for a new token pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (*oauth2.Token, error)

// Authenticator decorates requests with the session's access token.
type Authenticator struct {
	session Session
	refresh RefreshFunc
	flights singleflight.Group
	nowFunc func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type Option func(*Authenticator)

func WithNowFunc(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.nowFunc = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Authenticator) {
		a.metrics = m
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

func New(s Session, refresh RefreshFunc, options ...Option) *Authenticator {
	a := &Authenticator{
		session: s,
		refresh: refresh,
		nowFunc: time.Now,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Authenticate is the one-shot form of Authenticator.Authenticate.
func Authenticate(req *http.Request, s Session, refresh RefreshFunc) *http.Request {
	return New(s, refresh).Authenticate(req)
}

// Authenticate returns a copy of req carrying "Authorization: Bearer <token>"
// when the session has an access token. An expired token is refreshed first
// if a refresh token is held; if that refresh fails the session is logged
// out and the copy goes without the header. req itself is never modified.
func (a *Authenticator) Authenticate(req *http.Request) *http.Request {
	out := req.Clone(req.Context())

	accessToken, refreshToken := a.session.Tokens()
	if accessToken != "" && refreshToken != "" && token.IsExpired(accessToken, a.nowFunc()) {
		a.refreshOnce(req.Context(), refreshToken)
		accessToken, _ = a.session.Tokens()
	}

	if accessToken != "" {
		out.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		out.Header.Del("Authorization")
	}
	return out
}

// refreshOnce runs at most one refresh per refresh token at a time; callers
// that arrive while it is in flight wait for and share its outcome.
func (a *Authenticator) refreshOnce(ctx context.Context, refreshToken string) {
	// The shared call must not die with whichever request happened to start it.
	flightCtx := context.WithoutCancel(ctx)

	_, _, _ = a.flights.Do(refreshToken, func() (any, error) {
		access, current := a.session.Tokens()
		if current != refreshToken || (access != "" && !token.IsExpired(access, a.nowFunc())) {
			// Another flight already rotated the pair.
			return nil, nil
		}

		tok, err := a.refresh(flightCtx, refreshToken)
		if err == nil && (tok == nil || tok.AccessToken == "") {
			err = consoleerrors.Wrapf(consoleerrors.ErrInvalidToken, "refresh returned no access token")
		}
		if err != nil {
			err = consoleerrors.Wrapf(consoleerrors.ErrRefreshFailed, "%v", err)
			a.metrics.Refresh(false)
			a.logger.Warn().Err(err).Msg("token refresh failed, logging out")
			a.session.Logout()
			return nil, err
		}

		a.metrics.Refresh(true)
		a.session.RefreshTokens(tok.AccessToken, tok.RefreshToken)
		a.logger.Debug().Msg("access token refreshed")
		return nil, nil
	})
}

// Transport wraps base so every request it sends is authenticated.
func (a *Authenticator) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{auth: a, base: base}
}

// Client returns an http.Client whose requests are authenticated.
func (a *Authenticator) Client(base http.RoundTripper) *http.Client {
	return &http.Client{Transport: a.Transport(base)}
}

type transport struct {
	auth *Authenticator
	base http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(t.auth.Authenticate(req))
}
