// Package metrics exposes the application's prometheus collectors. The
// webserver serves them on /metrics alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SystemCPUUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "standarium",
		Name:      "system_cpu_use_percent",
		Help:      "Host CPU usage percent.",
	})

	SystemMemUseMB = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "standarium",
		Name:      "system_mem_use_mb",
		Help:      "Host memory in use, megabytes.",
	})

	ProcessCPUUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "standarium",
		Name:      "process_cpu_use_percent",
		Help:      "Standarium process CPU usage percent.",
	})

	ProcessMemUseMB = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "standarium",
		Name:      "process_mem_use_mb",
		Help:      "Standarium process RSS, megabytes.",
	})

	SnapshotsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standarium",
		Name:      "snapshots_delivered_total",
		Help:      "Collection snapshots pushed to session stores.",
	}, []string{"collection"})

	RemoteWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standarium",
		Name:      "remote_write_errors_total",
		Help:      "Failed save/remove operations against the document store.",
	}, []string{"collection"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "standarium",
		Name:      "active_sessions",
		Help:      "Signed-in principals with live collection subscriptions.",
	})

	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standarium",
		Name:      "ai_requests_total",
		Help:      "Requests forwarded to the AI backend, by operation and outcome.",
	}, []string{"op", "outcome"})
)
