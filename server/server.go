// Package server is the local console: an HTTP surface over the session
// store whose screen routes sit behind the route guard.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/product-console/api"
	"github.com/jrsteele09/product-console/guard"
	"github.com/jrsteele09/product-console/internal/config"
	"github.com/jrsteele09/product-console/profile"
	"github.com/jrsteele09/product-console/session"
)

// Deps are the collaborators the console serves.
type Deps struct {
	Store    *session.Store
	Guard    *guard.Guard
	API      *api.Client
	Profile  *profile.Service
	Registry *prometheus.Registry
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	router   chi.Router
	routes   []string
	config   config.Config
	store    *session.Store
	guard    *guard.Guard
	api      *api.Client
	profile  *profile.Service
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

func New(c config.Config, deps Deps) (*Server, error) {
	if deps.Store == nil || deps.Guard == nil || deps.API == nil || deps.Profile == nil {
		return nil, fmt.Errorf("[Server New] store, guard, api and profile are required")
	}

	s := &Server{
		env:      c.GetEnv(),
		config:   c,
		store:    deps.Store,
		guard:    deps.Guard,
		api:      deps.API,
		profile:  deps.Profile,
		gatherer: prometheus.DefaultGatherer,
		logger:   log.Logger,
	}
	if deps.Registry != nil {
		s.gatherer = deps.Registry
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		s.logger.Debug().Msg(route)
	}
}
