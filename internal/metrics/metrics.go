// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sortir_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	TicketmasterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_ticketmaster_requests_total",
			Help: "Requests sent to the Ticketmaster Discovery API by outcome",
		},
		[]string{"outcome"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sortir_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	EventsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_events_upserted_total",
			Help: "Events written to the event store by action",
		},
		[]string{"action"},
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sortir_sync_runs_total",
			Help: "Synchronization runs by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sortir_sync_duration_seconds",
			Help:    "Wall-clock duration of synchronization runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sortir_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful synchronization",
		},
	)
)

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func RecordSync(trigger string, success bool, d time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	SyncRuns.WithLabelValues(trigger, result).Inc()
	SyncDuration.Observe(d.Seconds())
	if success {
		SyncLastSuccess.SetToCurrentTime()
	}
}
