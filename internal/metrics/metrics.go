// Package metrics provides Prometheus metrics for the preview pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tota_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tota_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	resolutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tota_preview_resolutions_total",
			Help: "Total dependency resolutions",
		},
	)

	resolutionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tota_preview_resolution_cache_hits_total",
			Help: "Resolution cache hits",
		},
	)

	resolutionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tota_preview_resolution_cache_misses_total",
			Help: "Resolution cache misses",
		},
	)

	minimalSetFiles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tota_preview_minimal_set_files",
			Help:    "Number of files in a resolved minimal file set",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	documentsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tota_preview_documents_built_total",
			Help: "Sandbox documents built",
		},
		[]string{"mode"},
	)

	documentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tota_preview_document_bytes",
			Help:    "Size of built sandbox documents",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 8),
		},
	)

	surfacesSuperseded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tota_preview_surfaces_superseded_total",
			Help: "Installed documents replaced by a newer one or discarded as stale",
		},
	)

	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tota_generation_requests_total",
			Help: "Calls to the generation service",
		},
		[]string{"status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordResolution records one resolver run and its cache traffic.
func RecordResolution(files, hits, misses int) {
	resolutionsTotal.Inc()
	minimalSetFiles.Observe(float64(files))
	resolutionCacheHits.Add(float64(hits))
	resolutionCacheMisses.Add(float64(misses))
}

func RecordDocument(mode string, size int) {
	documentsBuilt.WithLabelValues(mode).Inc()
	documentBytes.Observe(float64(size))
}

func RecordSuperseded() {
	surfacesSuperseded.Inc()
}

func RecordGeneration(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	generationsTotal.WithLabelValues(status).Inc()
}
