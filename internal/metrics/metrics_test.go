package metrics_test

import (
	"testing"

	"github.com/jrsteele09/product-console/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counts(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.Refresh(true)
	m.Logout()
	m.GuardDecision(false)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(metrics.OutcomeSuccess)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues(metrics.OutcomeFailure)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes.WithLabelValues(metrics.OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Logouts))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Guard.WithLabelValues(metrics.OutcomeDenied)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.Login(true)
		m.Logout()
		m.Refresh(false)
		m.GuardDecision(true)
	})
}
