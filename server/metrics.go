package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors that report session activity.
type Metrics struct {
	requestDuration   *prometheus.HistogramVec
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionMinutes    prometheus.Counter
	pushClients       prometheus.Gauge
}

// MustNewMetrics registers the collectors with reg and panics on
// registration errors.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "focus",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "Duration of session API requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		sessionsStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "focus",
				Name:      "sessions_started_total",
				Help:      "Number of work sessions started.",
			},
		),
		sessionsCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "focus",
				Name:      "sessions_completed_total",
				Help:      "Number of work sessions completed.",
			},
		),
		sessionMinutes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "focus",
				Name:      "session_minutes_total",
				Help:      "Whole minutes recorded by completed sessions.",
			},
		),
		pushClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "focus",
				Subsystem: "push",
				Name:      "clients",
				Help:      "Number of connected WebSocket clients.",
			},
		),
	}

	reg.MustRegister(
		m.requestDuration,
		m.sessionsStarted,
		m.sessionsCompleted,
		m.sessionMinutes,
		m.pushClients,
	)

	return m
}
