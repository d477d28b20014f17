// Package metrics exposes Prometheus counters for model calls, tool dispatches and executor
// outcomes.
//
// A nil *Metrics is valid and records nothing, so stages can hold one unconditionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "planact"

// Executor outcomes.
const (
	OutcomeAnswered    = "answered"
	OutcomeTurnBudget  = "turn_budget_exceeded"
	OutcomeMalformed   = "malformed_action"
	OutcomeUnknownTool = "unknown_tool"
	OutcomeToolFailed  = "tool_failed"
	OutcomeModelError  = "model_error"
	OutcomeCanceled    = "canceled"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	modelCalls    *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
	modelTokens   *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	executorRuns  *prometheus.CounterVec
	executorTurns prometheus.Histogram
	planOutcomes  *prometheus.CounterVec
}

// New creates Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Model gateway calls by stage and result.",
		}, []string{"stage", "result"}),
		modelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_call_duration_seconds",
			Help:      "Model gateway call latency by stage.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"stage"}),
		modelTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_tokens_total",
			Help:      "Tokens reported by the backend, by model and direction.",
		}, []string{"model", "direction"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool dispatches by tool and result.",
		}, []string{"tool", "result"}),
		executorRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executor_runs_total",
			Help:      "Executor invocations by outcome.",
		}, []string{"outcome"}),
		executorTurns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "executor_turns",
			Help:      "Model turns used per executor invocation.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		planOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Planner results by status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.modelCalls,
		m.modelDuration,
		m.modelTokens,
		m.toolCalls,
		m.executorRuns,
		m.executorTurns,
		m.planOutcomes,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ModelCall records one gateway call made by stage.
func (m *Metrics) ModelCall(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.modelCalls.WithLabelValues(stage, result(err)).Inc()
	m.modelDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Tokens records token usage reported by a backend. Zero counts are skipped.
func (m *Metrics) Tokens(model string, input, output int) {
	if m == nil {
		return
	}
	if input > 0 {
		m.modelTokens.WithLabelValues(model, "input").Add(float64(input))
	}
	if output > 0 {
		m.modelTokens.WithLabelValues(model, "output").Add(float64(output))
	}
}

// ToolCall records one dispatch of tool.
func (m *Metrics) ToolCall(tool string, err error) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, result(err)).Inc()
}

// ExecutorRun records how an executor invocation ended and how many turns it used.
func (m *Metrics) ExecutorRun(outcome string, turns int) {
	if m == nil {
		return
	}
	m.executorRuns.WithLabelValues(outcome).Inc()
	m.executorTurns.Observe(float64(turns))
}

// Plan records a planner result status.
func (m *Metrics) Plan(status string) {
	if m == nil {
		return
	}
	m.planOutcomes.WithLabelValues(status).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve exposes Handler on addr at /metrics until the server fails.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
