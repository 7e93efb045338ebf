// Package guard decides whether the current session may open a console route.
package guard

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/jrsteele09/product-console/session"
)

const (
	// LoginRoute is where unauthenticated users are sent.
	LoginRoute = "/"
	// LandingRoute is where authenticated users are sent when a route is not granted.
	LandingRoute = "/dashboard"
	// ProfileRoute is open to every authenticated user.
	ProfileRoute = "/profile"
)

// Decision is the outcome of a guard check. Redirect is set only when Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Decide applies the route rules in order: unauthenticated users go to the
// login route, the profile route is always open, a path listed in screens is
// open, anything else goes to the landing route. Matching is exact and case
// sensitive; "/products/" does not match "/products".
func Decide(authenticated bool, screens []session.ScreenGrant, path string) Decision {
	if !authenticated {
		return Decision{Redirect: LoginRoute}
	}
	if path == ProfileRoute {
		return Decision{Allowed: true}
	}
	for _, s := range screens {
		if s.ScreenURL == path {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: LandingRoute}
}

// State is a consistent view of the session.
type State interface {
	Snapshot() session.Session
}

// Guard wraps handlers with Decide.
type Guard struct {
	state   State
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

type Option func(*Guard)

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func New(state State, options ...Option) *Guard {
	g := &Guard{state: state, logger: log.Logger}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// Check evaluates path against the current session.
func (g *Guard) Check(path string) Decision {
	s := g.state.Snapshot()
	d := Decide(s.IsAuthenticated, s.PermittedScreens, path)
	g.metrics.GuardDecision(d.Allowed)
	if !d.Allowed {
		g.logger.Debug().Str("path", path).Str("redirect", d.Redirect).Msg("route denied")
	}
	return d
}

// Middleware guards next using the request path as the screen.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.serve(w, r, r.URL.Path, next)
	})
}

// RequireScreen guards next as if screen had been requested. Use it for
// resources that belong to a screen without being one, such as a product's
// reviews under "/products".
func (g *Guard) RequireScreen(screen string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(w, r, screen, next)
		})
	}
}

func (g *Guard) serve(w http.ResponseWriter, r *http.Request, path string, next http.Handler) {
	d := g.Check(path)
	if !d.Allowed {
		http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
		return
	}
	next.ServeHTTP(w, r)
}
