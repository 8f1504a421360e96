package matching

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"cohort.regsund.org/internal/models"
	"cohort.regsund.org/internal/registry"
)

// parallelThreshold is the case count above which a parallel-enabled config
// actually dispatches parallel matching. Below it the partitioning overhead
// outweighs the win.
const parallelThreshold = 1000

// Matcher pairs cases with controls according to a MatchingConfig.
type Matcher struct {
	config MatchingConfig
	logger *slog.Logger
}

// NewMatcher creates a matcher with the given configuration.
func NewMatcher(config MatchingConfig, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{config: config, logger: logger}
}

// Match performs case-control matching between the two batches and returns
// the matched row indices. Validation and extraction failures abort the run
// before any matching work; conditions arising during matching (no eligible
// controls, zero matches) are folded into the result instead, so a run that
// matches nothing still returns a well-formed empty result.
func (m *Matcher) Match(cases, controls *registry.Batch) (*MatchingResult, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := m.logger.With("run_id", runID)

	if err := validateBatches(cases, controls); err != nil {
		return nil, err
	}

	caseAttrs, err := ExtractAttributes(cases, m.config, logger)
	if err != nil {
		return nil, err
	}
	controlAttrs, err := ExtractAttributes(controls, m.config, logger)
	if err != nil {
		return nil, err
	}

	DumpConfig(logger, m.config)
	DumpAttributes(logger, "cases", caseAttrs)
	DumpAttributes(logger, "controls", controlAttrs)

	seed := drawSeed()
	if m.config.RandomSeed != nil {
		seed = *m.config.RandomSeed
	}
	logger.Info("matching run starting",
		"cases", caseAttrs.Len(),
		"controls", controlAttrs.Len(),
		"ratio", m.config.MatchingRatio,
		"seed", seed)

	result := &MatchingResult{RunID: runID, Seed: seed}

	if caseAttrs.IsEmpty() || controlAttrs.IsEmpty() {
		logger.Warn("nothing to match",
			"valid_cases", caseAttrs.Len(),
			"valid_controls", controlAttrs.Len())
		result.MatchingTime = time.Since(start)
		observeRun(result, caseAttrs.Len())
		return result, nil
	}

	controlData := NewControlData(controlAttrs)

	useParallel := m.config.UseParallel && caseAttrs.Len() >= parallelThreshold
	if useParallel {
		result.MatchedCases, result.MatchedControls, result.ControlCounts =
			performParallelMatching(caseAttrs, controlData, m.config, seed, logger)
	} else {
		rng := newRNG(seed, 0)
		result.MatchedCases, result.MatchedControls, result.ControlCounts =
			performSequentialMatching(caseAttrs, controlData, m.config, rng, logger)
	}

	result.MatchedCaseCount = len(result.MatchedCases)
	result.MatchedControlCount = len(result.MatchedControls)
	result.MatchingTime = time.Since(start)
	observeRun(result, caseAttrs.Len())

	logger.Info("matching run finished",
		"matched_cases", result.MatchedCaseCount,
		"matched_controls", result.MatchedControlCount,
		"unmatched_cases", caseAttrs.Len()-result.MatchedCaseCount,
		"elapsed", result.MatchingTime)

	return result, nil
}

// validateBatches checks that both batches carry the mandatory columns.
// Optional columns (gender, family size) are handled during extraction with
// warnings only.
func validateBatches(cases, controls *registry.Batch) error {
	for _, column := range []string{models.ColumnPNR, models.ColumnBirthDate} {
		if !cases.HasColumn(column) {
			return validationErrorf("cases batch missing required column: %s", column)
		}
		if !controls.HasColumn(column) {
			return validationErrorf("controls batch missing required column: %s", column)
		}
	}
	return nil
}
