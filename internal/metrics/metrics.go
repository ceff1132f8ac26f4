// README: Prometheus collectors for turns, policy blocks, generation and tools.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	gatherer prometheus.Gatherer

	turns       *prometheus.CounterVec
	blocks      *prometheus.CounterVec
	generations *prometheus.CounterVec
	toolCalls   *prometheus.CounterVec
	turnLatency prometheus.Histogram
	toolLatency *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charter_turns_total",
			Help: "Conversation turns processed, by routed intent and resulting state.",
		}, []string{"intent", "state"}),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charter_policy_blocks_total",
			Help: "Messages blocked by the policy gate, by violation.",
		}, []string{"violation"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charter_generation_total",
			Help: "Generation calls by backend and outcome (ok, unhealthy, error).",
		}, []string{"backend", "outcome"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "charter_tool_calls_total",
			Help: "Tool invocations by tool name and result.",
		}, []string{"tool", "result"}),
		turnLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "charter_turn_duration_seconds",
			Help:    "End-to-end latency of one conversation turn.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		toolLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "charter_tool_duration_seconds",
			Help:    "Latency of individual tool calls.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"tool"}),
	}
	reg.MustRegister(
		m.turns, m.blocks, m.generations, m.toolCalls, m.turnLatency, m.toolLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Turn(intent, state string, took time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(intent, state).Inc()
	m.turnLatency.Observe(took.Seconds())
}

func (m *Metrics) Blocked(violation string) {
	if m == nil {
		return
	}
	m.blocks.WithLabelValues(violation).Inc()
}

func (m *Metrics) Generation(backend, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(backend, outcome).Inc()
}

func (m *Metrics) ToolCall(tool string, ok bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.toolCalls.WithLabelValues(tool, result).Inc()
	m.toolLatency.WithLabelValues(tool).Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
