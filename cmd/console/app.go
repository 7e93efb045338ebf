package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/product-console/api"
	"github.com/jrsteele09/product-console/authbackend"
	"github.com/jrsteele09/product-console/authenticator"
	"github.com/jrsteele09/product-console/guard"
	"github.com/jrsteele09/product-console/internal/config"
	"github.com/jrsteele09/product-console/internal/logger"
	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/jrsteele09/product-console/profile"
	"github.com/jrsteele09/product-console/session"
	"github.com/jrsteele09/product-console/session/filerepo"
	"github.com/jrsteele09/product-console/session/redisrepo"
)

// app wires the session store and everything that hangs off it.
type app struct {
	config   config.Config
	logger   zerolog.Logger
	registry *prometheus.Registry
	store    *session.Store
	guard    *guard.Guard
	api      *api.Client
	profile  *profile.Service
	closers  []func() error
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{
		config:   c,
		logger:   logger.Setup(c.GetEnv() == "DEV", c.GetLogFile()),
		registry: prometheus.NewRegistry(),
	}
	if err := a.wire(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// wire builds the collaborators. On failure everything opened so far is closed.
func (a *app) wire(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	c := a.config
	m := metrics.New(a.registry)

	repo, err := a.newRepo(ctx)
	if err != nil {
		return err
	}

	auth := authbackend.New(c.GetAPIBaseURL(), authbackend.WithRefreshURL(c.GetRefreshURL()))
	storeOpts := []session.StoreOption{
		session.WithDefaultTTL(c.GetDefaultTokenTTLMinutes()),
		session.WithMetrics(m),
		session.WithLogger(a.logger),
	}
	if repo != nil {
		storeOpts = append(storeOpts, session.WithRepo(repo))
	}
	a.store, err = session.NewStore(auth, storeOpts...)
	if err != nil {
		return err
	}
	if err = a.store.Rehydrate(ctx); err != nil {
		return fmt.Errorf("app.wire rehydrate: %w", err)
	}

	authn := authenticator.New(a.store, auth.Refresh,
		authenticator.WithMetrics(m),
		authenticator.WithLogger(a.logger),
	)
	var apiOpts []api.Option
	if c.GetResponseCacheEnabled() {
		apiOpts = append(apiOpts, api.WithResponseCache(c.GetResponseCacheDir()))
	}
	a.api = api.NewClient(c.GetAPIBaseURL(), authn, apiOpts...)
	a.profile = profile.New(a.api, a.store)
	a.guard = guard.New(a.store, guard.WithMetrics(m), guard.WithLogger(a.logger))
	return nil
}

func (a *app) newRepo(ctx context.Context) (session.Repo, error) {
	switch strings.ToLower(a.config.GetSessionStore()) {
	case "memory":
		return nil, nil
	case "redis":
		client, err := redisrepo.Dial(ctx, a.config.GetRedisAddr(), a.config.GetRedisPassword(), a.config.GetRedisDB())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return redisrepo.New(client, a.config.GetPersistKey()), nil
	case "file", "":
		repo, err := filerepo.New(a.config.GetSessionFile(), a.config.GetPersistKey())
		if err != nil {
			return nil, err
		}
		a.logger.Debug().Str("path", repo.Path()).Msg("session file")
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", a.config.GetSessionStore())
	}
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}
