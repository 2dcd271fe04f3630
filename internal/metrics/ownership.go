package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ownershipResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ownership",
		Name:      "resolve_total",
		Help:      "Count of ownership resolutions.",
	}, []string{"network", "status"})

	ownershipResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ownership",
		Name:      "resolve_duration_seconds",
		Help:      "Duration of resolving the tokens of an owner.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	ownershipOwnedTokens = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ownership",
		Name:      "owned_tokens",
		Help:      "Number of qualifying tokens per resolved owner.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	}, []string{"network"})

	ownershipEnrichDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ownership",
		Name:      "enrich_duration_seconds",
		Help:      "Duration of fetching display data of a single token.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})
)

// Ownership tracks metrics for ownership resolution.
type Ownership struct {
	network string
}

// NewOwnership constructs an Ownership collector for network.
func NewOwnership(network string) *Ownership {
	return &Ownership{network: orUnknown(network)}
}

// ObserveResolve records a resolve outcome. owned is only recorded on success.
func (m Ownership) ObserveResolve(err error, owned uint64, started time.Time) {
	s := status(err)
	ownershipResolveTotal.WithLabelValues(m.network, s).Inc()
	ownershipResolveDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	if err == nil {
		ownershipOwnedTokens.WithLabelValues(m.network).Observe(float64(owned))
	}
}

// ObserveEnrich records a single metadata fetch.
func (m Ownership) ObserveEnrich(err error, started time.Time) {
	ownershipEnrichDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
}
