package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics records
// nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Codec metrics
	codecOperationsTotal   *prometheus.CounterVec
	codecOperationDuration *prometheus.HistogramVec

	// Catalog metrics
	replaysTotal prometheus.Gauge
	moveEdits    *prometheus.CounterVec

	authRequestsTotal *prometheus.CounterVec
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowrec_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shadowrec_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shadowrec_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		codecOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowrec_codec_operations_total",
				Help: "Total number of replay decode and encode operations",
			},
			[]string{"operation", "status"},
		),

		codecOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shadowrec_codec_operation_duration_seconds",
				Help:    "Replay codec operation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation"},
		),

		replaysTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shadowrec_replays_total",
				Help: "Number of replays in the catalog at the last listing",
			},
		),

		moveEdits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowrec_move_edits_total",
				Help: "Total number of move list edits",
			},
			[]string{"operation", "status"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowrec_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shadowrec_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCodecOperation records a decode or encode of a replay
func (m *Metrics) RecordCodecOperation(operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.codecOperationsTotal.WithLabelValues(operation, statusLabel(success)).Inc()
	m.codecOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMoveEdit records an insert or delete against a move list
func (m *Metrics) RecordMoveEdit(operation string, success bool) {
	if m == nil {
		return
	}
	m.moveEdits.WithLabelValues(operation, statusLabel(success)).Inc()
}

// SetReplayCount updates the catalog size gauge
func (m *Metrics) SetReplayCount(n int) {
	if m == nil {
		return
	}
	m.replaysTotal.Set(float64(n))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	if m == nil {
		return
	}
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	if m == nil {
		return
	}
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get("X-API-Key") != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next(h).ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
