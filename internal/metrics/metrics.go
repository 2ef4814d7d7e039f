// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Record store operation latency (all backends)
// - SQL statement duration (relational backends)
// - API endpoint latency and throughput
// - Response cache efficiency
// - Circuit breaker state

var (
	// Store Metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of record store operations in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operation_errors_total",
			Help: "Total number of record store operation errors",
		},
		[]string{"backend", "operation", "error_type"},
	)

	StoreUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_up",
			Help: "Whether the last record store health check succeeded (1) or failed (0)",
		},
		[]string{"backend"},
	)

	RecordsLoaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "records_loaded_total",
			Help: "Total number of records written by bulk loads",
		},
		[]string{"kind"}, // "geometry", "attribute"
	)

	// SQL Metrics
	SQLQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sql_query_duration_seconds",
			Help:    "Duration of SQL statements in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "statement"},
	)

	SQLSlowQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sql_slow_queries_total",
			Help: "Total number of SQL statements exceeding the slow query threshold",
		},
		[]string{"driver"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"backend"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"backend"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of response cache invalidations",
		},
		[]string{"backend"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Error types reported in the error_type label. Kept to a closed set so the
// label cardinality stays bounded.
const (
	ErrorTypeDuplicate   = "duplicate_key"
	ErrorTypeUnavailable = "unavailable"
	ErrorTypeCanceled    = "canceled"
	ErrorTypeOther       = "other"
)

// RecordStoreOperation records a record store operation metric.
// errorType is empty for successful operations.
func RecordStoreOperation(backend, operation string, duration time.Duration, errorType string) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if errorType != "" {
		StoreOperationErrors.WithLabelValues(backend, operation, errorType).Inc()
	}
}

// RecordSQLQuery records a SQL statement duration. Statement is a short
// verb ("select", "insert") rather than the full query text.
func RecordSQLQuery(driver, statement string, duration time.Duration, slow bool) {
	SQLQueryDuration.WithLabelValues(driver, statement).Observe(duration.Seconds())
	if slow {
		SQLSlowQueries.WithLabelValues(driver).Inc()
	}
}

// RecordLoad records the number of records written by a bulk load
func RecordLoad(geometries, attributes int) {
	RecordsLoaded.WithLabelValues("geometry").Add(float64(geometries))
	RecordsLoaded.WithLabelValues("attribute").Add(float64(attributes))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a response cache hit or miss
func RecordCacheLookup(backend string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(backend).Inc()
	} else {
		CacheMisses.WithLabelValues(backend).Inc()
	}
}

// RecordCacheInvalidation records a response cache flush
func RecordCacheInvalidation(backend string) {
	CacheInvalidations.WithLabelValues(backend).Inc()
}

// SetStoreUp records the outcome of a record store health check
func SetStoreUp(backend string, up bool) {
	if up {
		StoreUp.WithLabelValues(backend).Set(1)
	} else {
		StoreUp.WithLabelValues(backend).Set(0)
	}
}
