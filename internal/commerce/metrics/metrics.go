package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks upstream attempts per method and status code
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopgate_requests_total",
			Help: "Total number of upstream request attempts",
		},
		[]string{"method", "code"},
	)

	// RequestErrors tracks failed attempts per method and error kind
	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopgate_request_errors_total",
			Help: "Total number of failed upstream attempts",
		},
		[]string{"method", "kind"},
	)

	// RequestRetries tracks retries scheduled after retryable failures
	RequestRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopgate_request_retries_total",
			Help: "Total number of retries scheduled",
		},
		[]string{"method"},
	)

	// RequestLatency tracks per-attempt latency
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopgate_request_latency_seconds",
			Help:    "Upstream attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// NormalizeHits tracks which envelope rule each successful payload
	// matched, which is how envelope drift upstream shows up first
	NormalizeHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopgate_normalize_total",
			Help: "Total payloads normalized, per envelope rule",
		},
		[]string{"rule"},
	)

	// OperationDuration tracks end-to-end operation latency including
	// retries and normalization
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopgate_operation_duration_seconds",
			Help:    "End-to-end operation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// OperationErrors tracks operations that raised, per error kind
	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopgate_operation_errors_total",
			Help: "Total number of operations that raised an error",
		},
		[]string{"operation", "kind"},
	)

	// DraftsSwept tracks expired checkout drafts removed by the sweeper
	DraftsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopgate_checkout_drafts_swept_total",
			Help: "Total number of expired checkout drafts removed",
		},
	)

	// DraftsActive tracks checkout drafts currently persisted
	DraftsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shopgate_checkout_drafts_active",
			Help: "Number of checkout drafts currently persisted",
		},
	)

	// UpstreamHealthy reports whether the upstream API answered the last probe
	UpstreamHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shopgate_upstream_healthy",
			Help: "Whether the upstream API answered the last health probe (1 = healthy)",
		},
	)
)
