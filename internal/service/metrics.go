package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var datasetLoads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "enemyintel",
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Dataset loads by source (cache, workbook, unavailable).",
	},
	[]string{"source"},
)
