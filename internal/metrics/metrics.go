// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the lead pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "leadpipeline"

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	LeadsCreated       *prometheus.CounterVec
	LeadStatusChanges  *prometheus.CounterVec
	IntakeSubmissions  *prometheus.CounterVec
	FileUploads        *prometheus.CounterVec
	ChatSessionsClosed prometheus.Counter
}

// New creates a registry with process and Go runtime collectors plus the
// service collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LeadsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "leads_created_total",
				Help:      "Leads created, by capture source",
			},
			[]string{"source"},
		),
		LeadStatusChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lead_status_updates_total",
				Help:      "Lead updates that set a status, by target status",
			},
			[]string{"status"},
		),
		IntakeSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "intake_submissions_total",
				Help:      "Terminal intake submissions, by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		FileUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_uploads_total",
				Help:      "File uploads, by outcome",
			},
			[]string{"outcome"},
		),
		ChatSessionsClosed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_sessions_auto_closed_total",
			Help:      "Chat sessions closed by the idle-session job",
		}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) LeadCreated(source string) {
	if m == nil {
		return
	}
	m.LeadsCreated.WithLabelValues(source).Inc()
}

func (m *Metrics) LeadStatusSet(status string) {
	if m == nil {
		return
	}
	m.LeadStatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) IntakeSubmitted(channel, outcome string) {
	if m == nil {
		return
	}
	m.IntakeSubmissions.WithLabelValues(channel, outcome).Inc()
}

func (m *Metrics) FileUploaded(outcome string) {
	if m == nil {
		return
	}
	m.FileUploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ChatSessionsAutoClosed(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.ChatSessionsClosed.Add(float64(n))
}
