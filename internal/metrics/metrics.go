// Package metrics exposes Prometheus collectors for HTTP traffic and meal plan generation
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/weekplate/backend/internal/diagnostics"
)

const namespace = "weekplate"

// Metrics owns a private registry so tests can build as many as they like
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec
	activeRequests  prometheus.Gauge

	plansGenerated *prometheus.CounterVec
	slotsGenerated *prometheus.CounterVec
	diagnostics    *prometheus.CounterVec
	parseRequests  *prometheus.CounterVec
}

// New creates the collectors and registers them together with the Go runtime collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of in-flight HTTP requests",
		}),
		plansGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "runs_total",
			Help:      "Meal plan generation runs by scope",
		}, []string{"scope"}),
		slotsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "slots_total",
			Help:      "Slots produced by the generator by outcome",
		}, []string{"outcome"}),
		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted by the generator by kind",
		}, []string{"kind"}),
		parseRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parser",
			Name:      "requests_total",
			Help:      "Recipe photo parse requests by outcome",
		}, []string{"outcome"}),
	}
}

// Registry is exposed for tests and for the /metrics handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestCount.WithLabelValues(method, path, code).Inc()
}

// RecordPlan counts one generation run. scope is "week" or "day".
func (m *Metrics) RecordPlan(scope string, assigned, unassigned int, log diagnostics.Log) {
	m.plansGenerated.WithLabelValues(scope).Inc()
	m.slotsGenerated.WithLabelValues("assigned").Add(float64(assigned))
	m.slotsGenerated.WithLabelValues("unassigned").Add(float64(unassigned))
	for _, e := range log {
		m.diagnostics.WithLabelValues(string(e.Kind)).Inc()
	}
}

// RecordParse counts a parse attempt. outcome is "ok", "error" or "unavailable".
func (m *Metrics) RecordParse(outcome string) {
	m.parseRequests.WithLabelValues(outcome).Inc()
}

// Middleware records every request under its route template, not the raw path
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
