package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Metrics holds the engine's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	nodeVisits   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	callErrors   *prometheus.CounterVec
	archives     *prometheus.CounterVec
	replies      *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridline_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gridline_external_call_duration_seconds",
				Help:    "Duration of calls to verification, classifier, advisor and transcript backends",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		),
		callErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridline_external_call_errors_total",
				Help: "Failed external calls",
			},
			[]string{"service"},
		),
		archives: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridline_sessions_archived_total",
				Help: "Archive attempts by reason and outcome",
			},
			[]string{"reason", "failed"},
		),
		replies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gridline_replies_total",
				Help: "Replies sent by kind and status",
			},
			[]string{"kind", "status"},
		),
	}
	m.registry.MustRegister(
		m.nodeVisits, m.callDuration, m.callErrors, m.archives, m.replies,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveReply counts a reply handed to a transport.
func (m *Metrics) ObserveReply(r domain.Reply) {
	m.replies.WithLabelValues(string(r.Kind), string(r.Status)).Inc()
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeVisits.WithLabelValues(e.NodeKey).Inc()
		},
		OnExternalCall: func(_ context.Context, e *domain.CallEvent) {
			m.callDuration.WithLabelValues(e.Service).Observe(e.Duration.Seconds())
			if e.IsError {
				m.callErrors.WithLabelValues(e.Service).Inc()
			}
		},
		OnSessionArchived: func(_ context.Context, e *domain.ArchiveEvent) {
			m.archives.WithLabelValues(e.Reason, strconv.FormatBool(e.IsError)).Inc()
		},
	}
}
