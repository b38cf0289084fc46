package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PlanReads       *prometheus.CounterVec
	PlanWrites      *prometheus.CounterVec
	Conflicts       *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all collectors registered on
// registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "woolly_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "woolly_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		PlanReads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "woolly_plan_reads_total",
				Help: "Total number of plan reads",
			},
			[]string{"mode", "success"},
		),
		PlanWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "woolly_plan_writes_total",
				Help: "Total number of plan writes",
			},
			[]string{"mode", "success"},
		),
		Conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "woolly_plan_conflicts_total",
				Help: "Total number of plan writes rejected for a stale revision",
			},
			[]string{"mode"},
		),
	}
}
