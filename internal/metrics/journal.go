package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	journalFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flush_total",
		Help:      "Count of attempt event batch flushes.",
	}, []string{"status"})

	journalFlushSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "flush_size",
		Help:      "Number of attempt events per flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1..512
	})

	journalDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "journal",
		Name:      "dropped_total",
		Help:      "Count of attempt events dropped because the journal was full or stopped.",
	})
)

// Journal tracks the attempt event journal.
type Journal struct{}

// NewJournal creates a Journal metrics collector.
func NewJournal() *Journal {
	return &Journal{}
}

// ObserveFlush records a batch write of events.
func (m Journal) ObserveFlush(err error, events int) {
	journalFlushTotal.WithLabelValues(status(err)).Inc()
	journalFlushSize.Observe(float64(events))
}

// ObserveDropped records an event that never reached the batcher.
func (m Journal) ObserveDropped() {
	journalDroppedTotal.Inc()
}
