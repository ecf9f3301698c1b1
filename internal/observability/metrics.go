package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recalculation outcomes.
const (
	OutcomeUpdated = "updated"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
)

// Aggregator label values.
const (
	AggSection    = "section"
	AggOverall    = "overall"
	AggDepartment = "department_category"
	AggCommodity  = "commodity_overall"
)

var (
	// recalcs counts aggregator runs by aggregator and outcome.
	recalcs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_recalculations_total",
			Help: "Total number of score recalculations.",
		},
		[]string{"aggregator", "outcome"},
	)

	// recalcLat records aggregator duration in seconds, including lock wait.
	recalcLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_recalculation_duration_seconds",
			Help:    "Duration of score recalculations in seconds.",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"aggregator"},
	)
)

func init() {
	prometheus.MustRegister(recalcs, recalcLat)
}

// ObserveRecalculation records one aggregator run that started at start.
func ObserveRecalculation(aggregator, outcome string, start time.Time) {
	recalcs.WithLabelValues(aggregator, outcome).Inc()
	recalcLat.WithLabelValues(aggregator).Observe(time.Since(start).Seconds())
}

// Outcome classifies an aggregator result for ObserveRecalculation.
func Outcome(wrote bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case wrote:
		return OutcomeUpdated
	default:
		return OutcomeNoop
	}
}
