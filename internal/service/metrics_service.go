package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Enrollment outcomes recorded by MetricsService.
const (
	EnrollmentEnrolled   = "enrolled"
	EnrollmentDuplicate  = "duplicate"
	EnrollmentRejected   = "rejected"
	EnrollmentUnenrolled = "unenrolled"
)

// MetricsService encapsulates Prometheus instrumentation. A nil
// *MetricsService is valid and records nothing.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	enrollments         *prometheus.CounterVec
	persistenceDuration *prometheus.HistogramVec
	persistenceFailures *prometheus.CounterVec
	backups             *prometheus.CounterVec
	exports             *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	enrollments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_enrollments_total",
		Help: "Enrollment attempts by outcome",
	}, []string{"outcome"})

	persistenceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ccrm_persistence_duration_seconds",
		Help:    "Duration of save and load operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "operation"})

	persistenceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_persistence_failures_total",
		Help: "Failed save and load operations",
	}, []string{"entity", "operation"})

	backups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_backups_total",
		Help: "Backups created by result",
	}, []string{"result"})

	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ccrm_exports_total",
		Help: "Exports rendered by format",
	}, []string{"format"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollments, persistenceDuration, persistenceFailures, backups, exports, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		enrollments:         enrollments,
		persistenceDuration: persistenceDuration,
		persistenceFailures: persistenceFailures,
		backups:             backups,
		exports:             exports,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordEnrollment counts one enrollment outcome.
func (m *MetricsService) RecordEnrollment(outcome string) {
	if m == nil {
		return
	}
	m.enrollments.WithLabelValues(outcome).Inc()
}

// ObservePersistence records a save or load of entity.
func (m *MetricsService) ObservePersistence(entity, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.persistenceDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
	if err != nil {
		m.persistenceFailures.WithLabelValues(entity, operation).Inc()
	}
}

// RecordBackup counts a backup attempt.
func (m *MetricsService) RecordBackup(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.backups.WithLabelValues(result).Inc()
}

// RecordExport counts a rendered export.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}
