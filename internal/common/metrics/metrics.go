// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_turns_completed_total",
			Help: "Total number of turns completed, by intent and provenance",
		},
		[]string{"intent", "provenance"},
	)

	TurnsClarification = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_turns_clarification_total",
			Help: "Total number of turns that ended in a clarification request",
		},
		[]string{"intent"},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "orchestrator_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"intent"},
	)

	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Total number of tool invocations, by tool and status",
		},
		[]string{"tool", "status"},
	)

	ToolInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tool_invocation_duration_seconds",
			Help: "Duration of tool invocations in seconds",
		},
		[]string{"tool"},
	)

	ParserFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parser_fallbacks_total",
			Help: "Total number of parser fallbacks, by tier (heuristic, synthetic)",
		},
		[]string{"shape", "tier"},
	)
)
