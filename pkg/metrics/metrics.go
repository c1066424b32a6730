package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every metric exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Histogram buckets from milliseconds up to the SMTP timeout range
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	RateLimitRejections = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_rate_limited_total",
			Help: "Requests rejected by the general per-IP rate limiter",
		},
		[]string{"limiter"},
	)

	// Business Metrics
	ContactSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	ContactRateLimitEntries = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_contact_rate_limit_entries",
			Help: "Number of caller identities tracked by the contact rate limiter",
		},
	)

	// Mail Client Metrics
	MailOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_mail_operation_duration_seconds",
			Help:    "Mail transport operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	MailOperationTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_mail_operations_total",
			Help: "Total number of mail transport operations",
		},
		[]string{"operation", "status"},
	)

	// GitHub Client Metrics
	GitHubRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_github_request_duration_seconds",
			Help:    "GitHub API request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	ProjectFallbacks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_project_fallbacks_total",
			Help: "Projects served with placeholder metadata",
		},
		[]string{"reason"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics until ctx is done
func RecordInfrastructureMetrics(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
