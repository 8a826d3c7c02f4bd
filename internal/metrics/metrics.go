// Package metrics provides Prometheus metrics for assetdex.
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
	// Scan metrics
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdex_scans_total",
			Help: "Total number of asset root scans",
		},
		[]string{"status"},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assetdex_scan_duration_seconds",
			Help:    "Asset scan duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	assetsIndexed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "assetdex_assets_indexed",
			Help: "Assets found by the most recent scan, by category",
		},
		[]string{"category"},
	)

	packsDetected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assetdex_packs_detected",
			Help: "Pack directories found by the most recent scan",
		},
	)

	// Composite metrics
	compositesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdex_composites_total",
			Help: "Total number of preview grid compositions",
		},
		[]string{"status"},
	)

	previewDecodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assetdex_preview_decode_failures_total",
			Help: "Preview images that could not be decoded during composition",
		},
	)

	// Storage metrics
	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetdex_storage_operation_duration_seconds",
			Help:    "Storage backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdex_storage_operations_total",
			Help: "Total storage backend operations",
		},
		[]string{"operation", "status"},
	)

	// HTTP metrics (serve mode)
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdex_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetdex_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScan records a completed (or failed) asset scan.
func RecordScan(duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	scansTotal.WithLabelValues(status).Inc()
	if success {
		scanDuration.Observe(duration.Seconds())
	}
}

// SetAssetsIndexed records per-category asset counts from the latest scan.
func SetAssetsIndexed(counts map[string]int) {
	assetsIndexed.Reset()
	for category, n := range counts {
		assetsIndexed.WithLabelValues(category).Set(float64(n))
	}
}

// SetPacksDetected records the pack count from the latest scan.
func SetPacksDetected(count int) {
	packsDetected.Set(float64(count))
}

// RecordComposite records a preview grid composition attempt.
func RecordComposite(status string) {
	compositesTotal.WithLabelValues(status).Inc()
}

// RecordPreviewDecodeFailure records a preview image that failed to decode.
func RecordPreviewDecodeFailure() {
	previewDecodeFailures.Inc()
}

// RecordStorageOperation records a storage backend operation.
func RecordStorageOperation(operation string, duration time.Duration, success bool) {
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	status := "success"
	if !success {
		status = "error"
	}
	storageOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
