// Package observability provides Prometheus metrics for the HTTP server
// and the AI client.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors the server records into. Construct once
// with NewMetrics and share; all collectors are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AIRequestsTotal     *prometheus.CounterVec
	AIRequestDuration   *prometheus.HistogramVec
	CacheHitsTotal      *prometheus.CounterVec
	ResumesSavedTotal   prometheus.Counter
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_studio_http_requests_total",
			Help: "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_studio_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		AIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_studio_ai_requests_total",
			Help: "Total AI service calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		AIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resume_studio_ai_request_duration_seconds",
			Help:    "AI service call latency by operation.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_studio_analysis_cache_total",
			Help: "Analysis cache lookups by result (hit or miss).",
		}, []string{"result"}),
		ResumesSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_studio_resumes_saved_total",
			Help: "Total resume records written.",
		}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AIRequestsTotal,
		m.AIRequestDuration,
		m.CacheHitsTotal,
		m.ResumesSavedTotal,
	)

	return m
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one completed HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, httpStatusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveAICall records one AI service call. outcome is "ok", "rejected",
// "network_error" or "malformed".
func (m *Metrics) ObserveAICall(operation, outcome string, elapsed time.Duration) {
	m.AIRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.AIRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records a cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues("hit").Inc()
	} else {
		m.CacheHitsTotal.WithLabelValues("miss").Inc()
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
