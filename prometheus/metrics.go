package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"easystock-service/pkg/config"
)

// Counter metrics
var (
	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "easystock_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easystock_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", "login_failure", ...
	)

	// Entity operation counter
	EntityOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easystock_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"}, // operation is "list", "get", "create", "update"
	)

	// Forbidden counter, per entity
	ForbiddenCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easystock_forbidden_total",
			Help: "Total number of requests rejected by the authorization policy",
		},
		[]string{"entity", "operation"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easystock_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "easystock_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "easystock_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update"
	)
)

// Gauge metrics
var (
	// Active tokens issued and not yet expired (best effort)
	ActiveTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "easystock_active_tokens",
			Help: "Number of tokens issued since startup that have not expired",
		},
	)
)

// InitMetrics registers every metric with the default registry.
func InitMetrics(cfg *config.Config) {
	prometheus.MustRegister(
		LoginCounter,
		AuthErrorCounter,
		EntityOperationCounter,
		ForbiddenCounter,
		HTTPRequestCounter,
		RequestDuration,
		DBOperationDuration,
		ActiveTokens,
	)
}

// RecordAuthError increments the auth error counter for the given type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordForbidden increments the policy rejection counter.
func RecordForbidden(entity, operation string) {
	ForbiddenCounter.WithLabelValues(entity, operation).Inc()
}

// RecordEntityOperation increments the per-entity operation counter.
func RecordEntityOperation(entity, operation string) {
	EntityOperationCounter.WithLabelValues(entity, operation).Inc()
}

// TrackDBOperation returns a function that observes the elapsed time of a
// database operation. Use with defer: defer TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// IncreaseActiveTokens bumps the active token gauge after a login.
func IncreaseActiveTokens() {
	ActiveTokens.Inc()
}

// MetricsMiddleware records request counts and durations per endpoint.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			endpoint := c.Path()

			HTTPRequestCounter.WithLabelValues(endpoint, method, status).Inc()
			RequestDuration.WithLabelValues(endpoint, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing metrics.
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
