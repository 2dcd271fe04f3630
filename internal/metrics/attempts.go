package metrics

import (
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "attempts",
		Name:      "settled_total",
		Help:      "Count of settled contract action attempts.",
	}, []string{"kind", "status"})
	attemptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "attempts",
		Name:      "duration_seconds",
		Help:      "Time from submit to a terminal attempt state.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"kind", "status"})
)

// Attempts tracks contract action attempts.
type Attempts struct{}

// NewAttempts creates an Attempts metrics collector.
func NewAttempts() *Attempts {
	return &Attempts{}
}

func (m Attempts) ObserveAttempt(kind model.ActionKind, s model.AttemptStatus, started time.Time) {
	attemptsTotal.WithLabelValues(string(kind), string(s)).Inc()
	attemptDuration.WithLabelValues(string(kind), string(s)).Observe(time.Since(started).Seconds())
}
