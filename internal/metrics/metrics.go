package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Point operations
	PointOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_operations_total",
			Help: "Total applied point operations",
		},
		[]string{"type"}, // CHARGE|USE
	)
	PointOpsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "point_operations_failed_total",
			Help: "Total rejected or failed point operations",
		},
		[]string{"type", "reason"},
	)
	HistoryGaps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "point_history_gaps_total",
			Help: "Balance writes whose history append failed",
		},
	)
	LockWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "point_lock_wait_seconds",
			Help:    "Time spent waiting for a per-user lock.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			PointOpsTotal,
			PointOpsFailed,
			HistoryGaps,
			LockWaitSeconds,
			WorkerQueueDepth,
		)
	})
}
