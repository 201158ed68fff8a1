package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Credential and token metrics
	PasswordOpDuration      *prometheus.HistogramVec
	TokenVerificationsTotal *prometheus.CounterVec
	TokensIssuedTotal       prometheus.Counter
	LoginsTotal             *prometheus.CounterVec
	RegistrationsTotal      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authgate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		PasswordOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authgate_password_operation_duration_seconds",
				Help:    "Duration of bcrypt hash and verify operations",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"op"},
		),
		TokenVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_token_verifications_total",
				Help: "Bearer token checks by outcome",
			},
			[]string{"result"},
		),
		TokensIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "authgate_tokens_issued_total",
				Help: "Tokens issued at login",
			},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"result"},
		),
		RegistrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"result"},
		),
		gatherer: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PasswordOpDuration,
		m.TokenVerificationsTotal,
		m.TokensIssuedTotal,
		m.LoginsTotal,
		m.RegistrationsTotal,
	)
	return m
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObservePasswordOp matches password.ObserveFunc.
func (m *Metrics) ObservePasswordOp(op string, d time.Duration) {
	m.PasswordOpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordTokenVerification counts a gate decision; result is "ok", "missing"
// or a failure kind.
func (m *Metrics) RecordTokenVerification(result string) {
	m.TokenVerificationsTotal.WithLabelValues(result).Inc()
}

// RecordLogin counts a login attempt and, on success, the issued token.
func (m *Metrics) RecordLogin(result string) {
	m.LoginsTotal.WithLabelValues(result).Inc()
	if result == "success" {
		m.TokensIssuedTotal.Inc()
	}
}

// RecordRegistration counts a registration attempt.
func (m *Metrics) RecordRegistration(result string) {
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
