package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	opSignup  = "signup"
	opLogin   = "login"
	opProfile = "profile"

	outcomeSuccess        = "success"
	outcomeRejected       = "rejected"
	outcomeConflict       = "conflict"
	outcomeNotFound       = "not_found"
	outcomeBadCredentials = "bad_credentials"
	outcomeError          = "error"
)

// Metrics are the server's Prometheus collectors, registered on their own
// registry so that tests can build as many servers as they like.
type Metrics struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	outcomes     *prometheus.CounterVec
	authFailures *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophauth_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_auth_outcomes_total",
			Help: "Signup, login and profile results by outcome.",
		}, []string{"op", "outcome"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophauth_bearer_rejections_total",
			Help: "Requests to protected routes rejected by the bearer check.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(m.requests, m.latency, m.outcomes, m.authFailures)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeRequest(method, route, status string, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, status).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) authOutcome(op, outcome string) {
	m.outcomes.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) authFailure(reason string) {
	m.authFailures.WithLabelValues(reason).Inc()
}
