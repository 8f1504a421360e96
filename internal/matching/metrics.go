package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	casesMatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cohort",
		Subsystem: "matching",
		Name:      "cases_matched_total",
		Help:      "Cases that received at least one control.",
	})
	casesUnmatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cohort",
		Subsystem: "matching",
		Name:      "cases_unmatched_total",
		Help:      "Cases for which no eligible control remained.",
	})
	controlsSelectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cohort",
		Subsystem: "matching",
		Name:      "controls_selected_total",
		Help:      "Controls assigned to cases.",
	})
	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cohort",
		Subsystem: "matching",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of matching runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
	})
)

func observeRun(result *MatchingResult, totalCases int) {
	casesMatchedTotal.Add(float64(len(result.MatchedCases)))
	casesUnmatchedTotal.Add(float64(totalCases - len(result.MatchedCases)))
	controlsSelectedTotal.Add(float64(len(result.MatchedControls)))
	runDurationSeconds.Observe(result.MatchingTime.Seconds())
}
