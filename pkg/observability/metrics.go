package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks total number of HTTP requests
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerkeep_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerkeep_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ActiveRequests tracks currently active requests
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ledgerkeep_http_active_requests",
			Help: "Number of active HTTP requests",
		},
	)

	// BatchesTotal counts ingestion batches by terminal status
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerkeep_ingest_batches_total",
			Help: "Total number of ingestion batches by terminal status",
		},
		[]string{"status", "filetype"},
	)

	// TransactionsIngested counts transactions persisted by the pipeline
	TransactionsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerkeep_ingest_transactions_total",
			Help: "Total number of transactions persisted by the ingestion pipeline",
		},
	)

	// ParseDuration tracks how long statement parsing takes
	ParseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerkeep_ingest_parse_duration_seconds",
			Help:    "Statement parse duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"filetype"},
	)
)

// statusRecorder captures the response code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware collects Prometheus metrics for every HTTP request.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(rec, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		RequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
	})
}
