// Package metrics exposes Prometheus counters for the HTTP layer and the
// contact pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeAccepted    = "accepted"
	OutcomeSpam        = "spam"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
)

// Notification results.
const (
	NotifySent     = "sent"
	NotifyFailed   = "failed"
	NotifyDisabled = "disabled"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	contactSubmissionsTotal    *prometheus.CounterVec
	contactNotificationsTotal  *prometheus.CounterVec
}

// New creates a Metrics with its own registry, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"path", "method"},
		),
		contactSubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		contactNotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contact_notifications_total",
				Help: "Contact notification emails by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDurationSeconds,
		m.contactSubmissionsTotal,
		m.contactNotificationsTotal,
	)
	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(path, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpRequestDurationSeconds.WithLabelValues(path, method).Observe(d.Seconds())
}

// Submission counts one contact submission with the given outcome.
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

// Notification counts one notification attempt with the given result.
func (m *Metrics) Notification(result string) {
	if m == nil {
		return
	}
	m.contactNotificationsTotal.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
