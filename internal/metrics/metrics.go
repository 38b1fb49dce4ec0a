// Package metrics exposes Prometheus collectors for the HTTP API and the
// authentication pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeNoToken     = "no_token"
	OutcomeInvalid     = "invalid"
	OutcomeExpired     = "expired"
	OutcomeUserMissing = "user_missing"
	OutcomeInactive    = "inactive"
	OutcomeStale       = "stale"
	OutcomeForbidden   = "forbidden"
	OutcomeError       = "error"
)

// Metrics holds the registered collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AuthOutcomesTotal   *prometheus.CounterVec
	LoginAttemptsTotal  *prometheus.CounterVec
	RateLimitedTotal    *prometheus.CounterVec
}

// New creates the collectors and registers them in registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boogle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "boogle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthOutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boogle_auth_outcomes_total",
				Help: "Request authentication results by outcome",
			},
			[]string{"outcome"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boogle_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "boogle_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthOutcomesTotal,
		m.LoginAttemptsTotal,
		m.RateLimitedTotal,
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveAuth records an authentication outcome.
func (m *Metrics) ObserveAuth(outcome string) {
	m.AuthOutcomesTotal.WithLabelValues(outcome).Inc()
}

// ObserveLogin records a login attempt result.
func (m *Metrics) ObserveLogin(result string) {
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimited records a rejected request.
func (m *Metrics) ObserveRateLimited(route string) {
	m.RateLimitedTotal.WithLabelValues(route).Inc()
}
