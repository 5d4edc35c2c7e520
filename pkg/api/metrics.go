package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "dumpdash",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Backend requests by operation and outcome.",
	},
	[]string{"op", "outcome"},
)
