package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var toolCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dumpdash",
		Subsystem: "mcp",
		Name:      "tool_calls_total",
		Help:      "MCP tool calls by tool name.",
	},
	[]string{"tool"},
)
