package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the prop dashboard

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propdash_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// Store metrics
	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_store_queries_total",
			Help: "Total number of read store queries",
		},
		[]string{"backend", "operation", "status"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "propdash_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Pipeline metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_pipeline_runs_total",
			Help: "Total number of ingestion pipeline runs",
		},
		[]string{"chain", "status"},
	)

	PipelineStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "propdash_pipeline_step_duration_seconds",
			Help:    "Duration of ingestion pipeline steps in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"step", "status"},
	)

	LeaguePollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_league_polls_total",
			Help: "Total number of league availability polls",
		},
		[]string{"result"},
	)

	// Presentation metrics
	PollerCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "propdash_poller_cycles_total",
			Help: "Total number of analysis refresh cycles",
		},
		[]string{"status"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "propdash_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)
