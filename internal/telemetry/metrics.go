package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_http_requests_total",
		Help: "HTTP requests served, by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payments_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_validation_failures_total",
		Help: "Payloads rejected by the record validator, by operation.",
	}, []string{"operation"})

	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_import_rows_total",
		Help: "Rows seen by bulk import, by outcome (inserted, dropped, aborted).",
	}, []string{"outcome"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_events_published_total",
		Help: "Payment events handed to a transport, by transport and result.",
	}, []string{"transport", "result"})
)
