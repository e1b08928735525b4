package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LogsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_logs_ingested_total",
		Help: "The total number of log records ingested",
	}, []string{"status"})

	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pulse_request_latency_seconds",
		Help:    "Request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	LogsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pulse_logs_cleaned_total",
		Help: "Total log records removed by retention cleanup",
	})
)
