package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "braviactl",
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "HTTP requests served by the bridge.",
		},
		[]string{"method", "route", "code"},
	)

	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "braviactl",
			Subsystem: "bridge",
			Name:      "actions_total",
			Help:      "Device actions processed, by outcome.",
		},
		[]string{"device", "type", "result"},
	)

	actionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "braviactl",
			Subsystem: "bridge",
			Name:      "action_duration_seconds",
			Help:      "Time spent waiting for the TV.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"type"},
	)
)

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
