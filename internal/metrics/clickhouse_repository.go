package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptStoreCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attempt_store",
		Name:      "calls_total",
		Help:      "ClickHouse attempt journal calls by operation and outcome.",
	}, []string{"operation", "status"})
	attemptStoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "attempt_store",
		Name:      "call_duration_seconds",
		Help:      "ClickHouse attempt journal call latency.",
		Buckets:   prometheus.ExponentialBuckets(0.002, 2.5, 10),
	}, []string{"operation", "status"})
)

// ClickhouseRepository observes the attempt journal store.
type ClickhouseRepository struct{}

// NewClickhouseRepository creates a ClickhouseRepository metrics collector.
func NewClickhouseRepository() *ClickhouseRepository {
	return &ClickhouseRepository{}
}

func (m ClickhouseRepository) Observe(operation string, err error, started time.Time) {
	s := status(err)
	attemptStoreCalls.WithLabelValues(operation, s).Inc()
	attemptStoreLatency.WithLabelValues(operation, s).Observe(time.Since(started).Seconds())
}
