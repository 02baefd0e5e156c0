// Package metrics exposes Prometheus counters for workflow activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xrsl/careerflow/pkg/catalog"
	"github.com/xrsl/careerflow/pkg/outcome"
	"github.com/xrsl/careerflow/pkg/workflow"
)

// Metrics owns a private registry so several instances can coexist in tests.
type Metrics struct {
	reg *prometheus.Registry

	stepUpdates     *prometheus.CounterVec
	completions     *prometheus.CounterVec
	outcomesTracked *prometheus.CounterVec
	recommendations prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the careerflow collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		stepUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_step_updates_total",
			Help: "Step status transitions by workflow and resulting status",
		}, []string{"workflow", "status"}),
		completions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_workflow_completions_total",
			Help: "Workflows that reached completion",
		}, []string{"workflow"}),
		outcomesTracked: f.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_outcomes_tracked_total",
			Help: "Outcome records written",
		}, []string{"workflow"}),
		recommendations: f.NewCounter(prometheus.CounterOpts{
			Name: "careerflow_recommendations_served_total",
			Help: "Recommendations returned to callers",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "careerflow_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "careerflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry is exposed for tests that gather values directly.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// StepHook matches workflow.StepHook.
func (m *Metrics) StepHook(id catalog.WorkflowID, _ string, status workflow.StepStatus) {
	m.stepUpdates.WithLabelValues(string(id), string(status)).Inc()
}

// Completed counts a completion. It is shaped like workflow.CompletionHandler
// but never fails.
func (m *Metrics) Completed(id catalog.WorkflowID) {
	m.completions.WithLabelValues(string(id)).Inc()
}

// Tracked matches the outcome tracker hook.
func (m *Metrics) Tracked(o outcome.Outcome) {
	m.outcomesTracked.WithLabelValues(string(o.WorkflowID)).Inc()
}

func (m *Metrics) RecommendationsServed(n int) {
	m.recommendations.Add(float64(n))
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusClass(statusCode)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return strconv.Itoa(code)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
