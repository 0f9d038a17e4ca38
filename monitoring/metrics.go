package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gametracker/engine"
)

var (
	// HTTP metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gametracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	HttpResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gametracker_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "endpoint"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_active_connections",
			Help: "Number of requests being served",
		},
	)

	// Library metrics, refreshed whenever a view is composed
	LibraryGames = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gametracker_library_games",
			Help: "Games in the library by status",
		},
		[]string{"status"},
	)

	LibraryHours = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_library_hours_total",
			Help: "Sum of hours played across the library",
		},
	)

	LibraryAverageRating = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gametracker_library_average_rating",
			Help: "Average rating of rated games",
		},
	)

	ViewComposeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gametracker_view_compose_duration_seconds",
			Help:    "Time spent filtering, sorting and aggregating a view",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"view"},
	)

	// Upstream and cache metrics
	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_upstream_errors_total",
			Help: "Failed calls to the persistence API",
		},
		[]string{"operation"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_cache_lookups_total",
			Help: "Collection cache lookups by result",
		},
		[]string{"collection", "result"}, // hit, miss or unavailable
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gametracker_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "endpoint"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to
// call more than once.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpRequestsTotal,
			HttpRequestDuration,
			HttpResponseSize,
			ActiveConnections,
			LibraryGames,
			LibraryHours,
			LibraryAverageRating,
			ViewComposeDuration,
			UpstreamErrors,
			CacheLookups,
			ErrorsTotal,
		)
	})
}

// RecordLibrary publishes the aggregate of the full, unfiltered library.
func RecordLibrary(stats engine.Statistics) {
	LibraryGames.WithLabelValues("total").Set(float64(stats.TotalCount))
	LibraryGames.WithLabelValues("completed").Set(float64(stats.CompletedCount))
	LibraryGames.WithLabelValues("pending").Set(float64(stats.PendingCount))
	LibraryGames.WithLabelValues("playing").Set(float64(stats.PlayingCount))
	LibraryHours.Set(stats.TotalHours)
	LibraryAverageRating.Set(stats.AverageRating)
}

// ObserveCompose times a view composition.
func ObserveCompose(view string, start time.Time) {
	ViewComposeDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}

// PrometheusMiddleware collects metrics for each request
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ActiveConnections.Inc()
		defer ActiveConnections.Dec()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()

		HttpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		HttpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
		HttpResponseSize.WithLabelValues(c.Request.Method, endpoint).Observe(float64(c.Writer.Size()))

		if status >= 400 {
			ErrorsTotal.WithLabelValues("http_error", endpoint).Inc()
		}
	}
}

// PrometheusHandler returns Prometheus metrics handler
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
