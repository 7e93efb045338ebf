// Package metrics holds the Prometheus collectors shared by the session,
// authenticator and guard layers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "console"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "redirected"
)

// Metrics groups the console counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Logins    *prometheus.CounterVec
	Logouts   prometheus.Counter
	Refreshes *prometheus.CounterVec
	Guard     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logouts_total",
			Help:      "Session resets, including forced logouts.",
		}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "authenticator",
			Name:      "token_refreshes_total",
			Help:      "Access token refresh calls by outcome.",
		}, []string{"outcome"}),
		Guard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(m.Logins, m.Logouts, m.Refreshes, m.Guard)
	}
	return m
}

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

func (m *Metrics) Refresh(ok bool) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) GuardDecision(allowed bool) {
	if m == nil {
		return
	}
	if allowed {
		m.Guard.WithLabelValues(OutcomeAllowed).Inc()
		return
	}
	m.Guard.WithLabelValues(OutcomeDenied).Inc()
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
