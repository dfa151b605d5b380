// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LikesToggled counts like toggles by target kind and resulting state.
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_likes_toggled_total",
		Help: "Total number of like toggles by target kind and resulting state",
	}, []string{"kind", "state"})

	// OwnershipDenied counts rejected mutations by resource kind and reason.
	OwnershipDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_ownership_denied_total",
		Help: "Total number of mutations rejected by the ownership check",
	}, []string{"kind", "reason"})

	// MediaUploads counts media store uploads by backend and result.
	MediaUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_media_uploads_total",
		Help: "Total number of media uploads by backend and result",
	}, []string{"backend", "result"})

	// MediaUploadLatency records upload latency per backend.
	MediaUploadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_media_upload_latency_seconds",
		Help:    "Media upload latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"backend"})

	// CacheLookups counts cache-aside lookups by keyspace and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_cache_lookups_total",
		Help: "Cache-aside lookups by keyspace and result",
	}, []string{"keyspace", "result"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// TrackUpload returns a function recording the outcome of a media upload.
func TrackUpload(backend string) func(err error) {
	start := time.Now()
	return func(err error) {
		MediaUploadLatency.WithLabelValues(backend).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		}
		MediaUploads.WithLabelValues(backend, result).Inc()
	}
}
