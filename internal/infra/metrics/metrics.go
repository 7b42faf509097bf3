// Package metrics exposes the prometheus collectors recorded by the auth flow and the HTTP layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskhub"

// Auth operation labels.
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpRefresh  = "refresh"
	OpLogout   = "logout"
)

// Auth result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups every collector the service records.
type Metrics struct {
	authAttempts        *prometheus.CounterVec
	integrityCorruption prometheus.Counter
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// New registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		authAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_attempts_total",
			Help:      "Authentication attempts by operation and result",
		}, []string{"operation", "result"}),
		integrityCorruption: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_integrity_failures_total",
			Help:      "Stored password hashes that could not be parsed",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// NewDefault registers on the process-wide registry served at /metrics.
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// AuthAttempt counts one register, login, refresh or logout outcome.
func (m *Metrics) AuthAttempt(operation string, success bool) {
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	m.authAttempts.WithLabelValues(operation, result).Inc()
}

// IntegrityCorruption counts a stored hash that failed to parse.
func (m *Metrics) IntegrityCorruption() {
	m.integrityCorruption.Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// AuthAttempts exposes the counter vector for assertions.
func (m *Metrics) AuthAttempts() *prometheus.CounterVec {
	return m.authAttempts
}

// IntegrityFailures exposes the corruption counter for assertions.
func (m *Metrics) IntegrityFailures() prometheus.Counter {
	return m.integrityCorruption
}

// HTTPRequests exposes the request counter for assertions.
func (m *Metrics) HTTPRequests() *prometheus.CounterVec {
	return m.httpRequests
}
