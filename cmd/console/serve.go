package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/product-console/internal/config"
	"github.com/jrsteele09/product-console/internal/logger"
	"github.com/jrsteele09/product-console/mockapi"
	"github.com/jrsteele09/product-console/server"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the console server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func() (*http.Server, func(), error) {
				a, err := newApp(cmd.Context(), *configPath)
				if err != nil {
					return nil, nil, err
				}
				handler, err := server.New(a.config, server.Deps{
					Store:    a.store,
					Guard:    a.guard,
					API:      a.api,
					Profile:  a.profile,
					Registry: a.registry,
				})
				if err != nil {
					a.Close()
					return nil, nil, err
				}
				displayAppname(a.config.GetAppName())
				return &http.Server{Addr: a.config.GetPort(), Handler: handler}, a.Close, nil
			})
		},
	}
}

func mockBackendCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "mock-backend",
		Short: "Run the in-memory development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func() (*http.Server, func(), error) {
				c, err := config.Load(*configPath)
				if err != nil {
					return nil, nil, err
				}
				l := logger.Setup(c.GetEnv() == "DEV", c.GetLogFile())
				handler, err := mockapi.New(
					mockapi.WithSigningSecret(c.GetMockSigningSecret()),
					mockapi.WithRefreshExpiry(time.Duration(c.GetMockRefreshTTLHours())*time.Hour),
					mockapi.WithLogger(l),
				)
				if err != nil {
					return nil, nil, err
				}
				displayAppname("Mock Backend")
				return &http.Server{Addr: c.GetMockBackendPort(), Handler: handler}, func() {}, nil
			})
		},
	}
}

// run serves until SIGINT or SIGTERM, restarting after a panic.
func run(build func() (*http.Server, func(), error)) error {
	for {
		err := runOnce(build)
		if err == nil {
			break
		}
		if !errors.Is(err, errPanicRecovered) {
			return err
		}
		log.Error().Err(err).Msg("restarting server")
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("Server stopped")
	return nil
}

var errPanicRecovered = errors.New("panic recovered")

func runOnce(build func() (*http.Server, func(), error)) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errPanicRecovered
		}
	}()

	srv, cleanup, err := build()
	if err != nil {
		return err
	}
	defer cleanup()

	errs := make(chan error, 1)
	go func() {
		errs <- listenAndServe(srv)
	}()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func listenAndServe(srv *http.Server) error {
	log.Info().Str("addr", srv.Addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
