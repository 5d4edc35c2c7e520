package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dumpdash",
			Subsystem: "cache",
			Name:      "mutations_total",
			Help:      "Optimistic mutations by operation and settled phase.",
		},
		[]string{"op", "phase"},
	)
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dumpdash",
			Subsystem: "cache",
			Name:      "fetches_total",
			Help:      "Dump list fetches by outcome.",
		},
		[]string{"outcome"},
	)
)
