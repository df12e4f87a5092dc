package advisory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "enemyintel",
		Subsystem: "advisory",
		Name:      "requests_total",
		Help:      "Advisory lookups by outcome (hit, miss, fallback, pending).",
	},
	[]string{"result"},
)

const (
	resultHit      = "hit"
	resultMiss     = "miss"
	resultFallback = "fallback"
	resultPending  = "pending"
)
