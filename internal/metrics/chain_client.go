package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_client",
		Name:      "operations_total",
		Help:      "Count of EVM node RPC operations.",
	}, []string{"operation", "network", "status"})
	chainRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of EVM node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ChainClient tracks metrics for RPC calls to the EVM node.
type ChainClient struct {
	network string
}

// NewChainClient constructs a metrics collector for node calls on network.
func NewChainClient(network string) *ChainClient {
	return &ChainClient{network: orUnknown(network)}
}

// Observe records a single RPC call outcome and duration.
func (m ChainClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	chainRequestsTotal.WithLabelValues(operation, m.network, s).Inc()
	chainRequestDuration.WithLabelValues(operation, m.network, s).Observe(time.Since(started).Seconds())
}
