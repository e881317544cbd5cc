package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rooklite/rook/internal/domain/ai"
)

// Metrics holds the Prometheus collectors for one server. Each server owns
// its registry so tests can build several.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal      *prometheus.CounterVec
	requestsInProgress prometheus.Gauge
	requestDuration    *prometheus.HistogramVec
	analysesTotal      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestsInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rook",
			Name:      "http_requests_in_progress",
			Help:      "HTTP requests currently being served.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			// Analyses take tens of seconds.
			Buckets: []float64{0.05, 0.25, 1, 5, 15, 30, 60, 120},
		}, []string{"route"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rook",
			Name:      "analyses_total",
			Help:      "Analysis requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.requestsInProgress,
		m.requestDuration,
		m.analysesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsInProgress.Inc()
		defer m.requestsInProgress.Dec()
		start := time.Now()

		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveAnalysis counts one finished analysis.
func (m *Metrics) ObserveAnalysis(mode string, err error) {
	m.analysesTotal.WithLabelValues(mode, Outcome(err)).Inc()
}

// Outcome buckets an analysis error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ai.ErrQuotaExceeded):
		return "quota"
	case errors.Is(err, ai.ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ai.ErrMissingCredential):
		return "missing_credential"
	default:
		return "error"
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
