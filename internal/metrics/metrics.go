package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors of the service.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store operation metrics
	StoreOperationDuration *prometheus.HistogramVec
	StoreErrorsTotal       *prometheus.CounterVec

	// Master data metrics
	RecordOperationsTotal *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Every metric name starts with prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		StoreErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_db_errors_total",
				Help: "Total number of failed database operations",
			},
			[]string{"operation", "table", "kind"},
		),
		RecordOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_record_operations_total",
				Help: "Total number of master data operations",
			},
			[]string{"entity", "operation", "outcome"},
		),
		AuthAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_auth_attempts_total",
				Help: "Total number of sign-in attempts",
			},
			[]string{"outcome"},
		),
	}
}

// TrackStoreOperation returns a function that records the duration of a store operation.
// It is safe to call on a nil *Metrics.
func (m *Metrics) TrackStoreOperation(operation, table string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.StoreOperationDuration.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
	}
}

// RecordStoreError counts a failed store operation by error kind.
func (m *Metrics) RecordStoreError(operation, table, kind string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(operation, table, kind).Inc()
}

// RecordOperation counts a master data operation and its outcome.
func (m *Metrics) RecordOperation(entity, operation, outcome string) {
	if m == nil {
		return
	}
	m.RecordOperationsTotal.WithLabelValues(entity, operation, outcome).Inc()
}

// RecordAuthAttempt counts a sign-in attempt.
func (m *Metrics) RecordAuthAttempt(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
