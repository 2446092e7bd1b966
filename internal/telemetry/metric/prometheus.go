package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hwdesk"

// ClientMetrics holds the client's request and auth metrics.
//
// A nil *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RetriesTotal     prometheus.Counter
	AuthTransitions  *prometheus.CounterVec
	SessionConflicts prometheus.Counter
}

// NewClientMetrics creates the metrics on a private registry.
func NewClientMetrics() *ClientMetrics {
	m := &ClientMetrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by method, path template and outcome.",
		}, []string{"method", "path", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of single API request attempts.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "status"}),
		RetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "retries_total",
			Help:      "Request attempts retried after a transport failure.",
		}),
		AuthTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "transitions_total",
			Help:      "Login state machine transitions.",
		}, []string{"from", "to"}),
		SessionConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "session_conflicts_total",
			Help:      "Logins rejected because the account already has an active session.",
		}),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RetriesTotal,
		m.AuthTransitions,
		m.SessionConflicts,
	)
	return m
}

// Registry returns the underlying registry.
func (m *ClientMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records the final outcome of a logical request.
func (m *ClientMetrics) ObserveRequest(method, path, outcome string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, outcome).Inc()
}

// ObserveAttempt records the latency of one attempt. status 0 means no response.
func (m *ClientMetrics) ObserveAttempt(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestDuration.WithLabelValues(method, label).Observe(d.Seconds())
}

// ObserveRetry counts one retried attempt.
func (m *ClientMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// ObserveTransition counts a login state change.
func (m *ClientMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.AuthTransitions.WithLabelValues(from, to).Inc()
}

// ObserveConflict counts a session conflict.
func (m *ClientMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.SessionConflicts.Inc()
}

// WriteTextfile writes all metrics to path atomically.
func (m *ClientMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
