package prometheus

import (
	"time"

	"catalog-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Tenant connection metrics
	TenantConnHitsCounter   prometheus.Counter
	TenantConnMissesCounter prometheus.Counter
	TenantConnErrorsCounter prometheus.Counter

	// Entity registration metrics
	EntityRegistrationsCounter *prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity operation metrics
	EntityOperationsCounter *prometheus.CounterVec

	// Raw-path write failures surfaced as warnings
	RawWriteFailuresCounter prometheus.Counter
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	// Tenant connection metrics
	TenantConnHitsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_conn_cache_hits_total",
			Help: "Total number of tenant connection cache hits",
		},
	)

	TenantConnMissesCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_conn_cache_misses_total",
			Help: "Total number of tenant connections dialed",
		},
	)

	TenantConnErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_tenant_conn_errors_total",
			Help: "Total number of tenant connection failures",
		},
	)

	// Entity registration metrics
	EntityRegistrationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_registrations_total",
			Help: "Total number of entity schema registrations",
		},
		[]string{"entity"},
	)

	// Database operation metrics
	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Entity operation metrics
	EntityOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of entity operations",
		},
		[]string{"entity", "operation"},
	)

	// Raw-path write failures
	RawWriteFailuresCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_raw_write_failures_total",
			Help: "Total number of raw-path writes that failed after a mapped write succeeded",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordEntityOperation increments the counter for entity operations
func RecordEntityOperation(entity, operation string) {
	if EntityOperationsCounter == nil {
		return
	}
	EntityOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordEntityRegistration increments the counter for entity registrations
func RecordEntityRegistration(entity string) {
	if EntityRegistrationsCounter == nil {
		return
	}
	EntityRegistrationsCounter.WithLabelValues(entity).Inc()
}

// RecordTenantConn records a tenant connection cache lookup result
func RecordTenantConn(hit bool) {
	if hit {
		if TenantConnHitsCounter != nil {
			TenantConnHitsCounter.Inc()
		}
		return
	}
	if TenantConnMissesCounter != nil {
		TenantConnMissesCounter.Inc()
	}
}

// RecordTenantConnError increments the counter for tenant connection failures
func RecordTenantConnError() {
	if TenantConnErrorsCounter != nil {
		TenantConnErrorsCounter.Inc()
	}
}

// RecordRawWriteFailure increments the counter for raw-path write failures
func RecordRawWriteFailure() {
	if RawWriteFailuresCounter != nil {
		RawWriteFailuresCounter.Inc()
	}
}
