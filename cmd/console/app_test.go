package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/product-console/internal/config"
)

func TestApp_WireClosesOnRehydrateFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	t.Setenv("SESSION_STORE", "file")
	t.Setenv("SESSION_FILE", path)

	closed := 0
	a := &app{
		config:   config.New(),
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
		closers:  []func() error{func() error { closed++; return nil }},
	}

	require.Error(t, a.wire(context.Background()))
	require.Equal(t, 1, closed)
	require.Empty(t, a.closers)
}

func TestApp_WireMemoryStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "memory")

	a := &app{
		config:   config.New(),
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
	}
	require.NoError(t, a.wire(context.Background()))
	require.NotNil(t, a.store)
	require.NotNil(t, a.api)
	require.False(t, a.store.IsAuthenticated())
}

func TestApp_UnknownSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")

	a := &app{config: config.New(), logger: zerolog.Nop(), registry: prometheus.NewRegistry()}
	require.Error(t, a.wire(context.Background()))
}
