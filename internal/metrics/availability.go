package metrics

import (
	"strconv"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	availabilityChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "availability",
		Name:      "checks_total",
		Help:      "Count of availability checks by verdict.",
	}, []string{"verdict", "reason", "cached"})
	availabilityCheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "availability",
		Name:      "check_duration_seconds",
		Help:      "Duration of availability checks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"verdict", "cached"})
)

// Availability tracks claim simulation verdicts.
type Availability struct{}

// NewAvailability creates an Availability metrics collector.
func NewAvailability() *Availability {
	return &Availability{}
}

func (m Availability) ObserveCheck(verdict model.AvailabilityVerdict, cached bool, started time.Time) {
	c := strconv.FormatBool(cached)
	availabilityChecksTotal.WithLabelValues(string(verdict.Kind), string(verdict.Reason), c).Inc()
	availabilityCheckDuration.WithLabelValues(string(verdict.Kind), c).Observe(time.Since(started).Seconds())
}
