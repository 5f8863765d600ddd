// Package telemetry provides Prometheus metrics and OpenTelemetry tracing.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dochub",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dochub",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// VersionsCreated counts article snapshots by the operation that produced them.
	VersionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dochub",
			Name:      "article_versions_created_total",
			Help:      "Total number of article versions created",
		},
		[]string{"reason"},
	)

	// PDFRenderDuration measures PDF rendering time.
	PDFRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dochub",
			Name:      "pdf_render_duration_seconds",
			Help:      "Duration of PDF renders in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)

	// PDFCacheHits counts PDF requests served from cache.
	PDFCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dochub",
			Name:      "pdf_cache_hits_total",
			Help:      "Total number of PDF exports served from cache",
		},
	)

	// UploadedBytes observes stored image sizes.
	UploadedBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "dochub",
			Name:      "upload_size_bytes",
			Help:      "Distribution of uploaded image sizes",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 4, 6),
		},
	)

	// RateLimited counts rejected requests per limiter group.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dochub",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
		[]string{"group"},
	)
)

// RecordVersion records a created article version.
func RecordVersion(reason string) {
	VersionsCreated.WithLabelValues(reason).Inc()
}

// RecordPDFRender records a PDF render attempt.
func RecordPDFRender(status string, seconds float64) {
	PDFRenderDuration.WithLabelValues(status).Observe(seconds)
}
