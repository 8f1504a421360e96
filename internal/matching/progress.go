package matching

import (
	"log/slog"

	"golang.org/x/time/rate"
)

// progressLogInterval caps progress log lines per second so progress
// reporting never dominates run output. Reporting is advisory only and never
// affects matching outcomes.
const progressLogInterval = rate.Limit(2)

type progressReporter struct {
	logger    *slog.Logger
	label     string
	total     int
	processed int
	limiter   *rate.Limiter
}

func newProgressReporter(logger *slog.Logger, label string, total int) *progressReporter {
	return &progressReporter{
		logger:  logger,
		label:   label,
		total:   total,
		limiter: rate.NewLimiter(progressLogInterval, 1),
	}
}

// step records one processed case and emits a rate-limited progress line.
func (p *progressReporter) step(matched int) {
	p.processed++
	if p.limiter.Allow() {
		p.logger.Info("matching progress",
			"label", p.label,
			"processed", p.processed,
			"total", p.total,
			"matched", matched)
	}
}

// finish emits the final progress line unconditionally.
func (p *progressReporter) finish(matched int) {
	p.logger.Info("matching complete",
		"label", p.label,
		"processed", p.processed,
		"total", p.total,
		"matched", matched)
}
