package crud

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK       = "ok"
	resultError    = "error"
	resultDeclined = "declined"
	resultSkipped  = "skipped"
	resultStale    = "stale"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crud",
			Name:      "operations_total",
			Help:      "Total number of CRUD orchestrator operations by result.",
		}, []string{"entity", "op", "result"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crud",
			Name:      "operation_duration_seconds",
			Help:      "Latency of CRUD orchestrator API calls.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5,
				1, 2.5, 5, 10,
			},
		}, []string{"entity", "op"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) record(entity, op, result string) {
	m.operations.WithLabelValues(entity, op, result).Inc()
}

func (m *metrics) observe(entity, op string, started time.Time) {
	m.duration.WithLabelValues(entity, op).Observe(time.Since(started).Seconds())
}
