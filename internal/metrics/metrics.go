package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telesight_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telesight_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	ArchivesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telesight_archives_uploaded_total",
			Help: "Total chat archives uploaded",
		},
	)

	ArchiveMessages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telesight_archive_messages",
			Help:    "Messages per uploaded archive",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		},
	)

	AnalysesRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telesight_analyses_run_total",
			Help: "Total analyses run",
		},
		[]string{"kind"}, // "fraud", "manipulation", "conflict", "graph", ...
	)

	DetectorHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telesight_detector_hits_total",
			Help: "Total messages flagged by detectors",
		},
		[]string{"detector", "severity"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telesight_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telesight_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)
)
