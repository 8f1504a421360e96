package matching

import (
	"log/slog"
	"math/rand/v2"
)

// eligibleControls scans the control pool positions [start, end) and returns
// those eligible for the given case: not already used, not the case itself,
// and satisfying the gender and family size criteria. A nil used set skips
// the used check.
//
// Gender semantics: when required, an unknown gender on either side rejects
// the control. Family size semantics: an unknown control family size rejects
// the control, while an unknown case family size disables the check for that
// case entirely.
func eligibleControls(
	controls *ControlData,
	casePNR string,
	caseGender *string,
	caseFamilySize *int,
	start, end int,
	criteria MatchingCriteria,
	used map[int]struct{},
) []int {
	var eligible []int
	for ctrlIdx := start; ctrlIdx < end; ctrlIdx++ {
		if used != nil {
			if _, taken := used[ctrlIdx]; taken {
				continue
			}
		}

		// Self-match guard.
		if controls.PNRs[ctrlIdx] == casePNR {
			continue
		}

		if criteria.RequireSameGender {
			if caseGender == nil {
				continue
			}
			controlGender := controls.Genders[ctrlIdx]
			if controlGender == nil || *controlGender != *caseGender {
				continue
			}
		}

		if criteria.MatchFamilySize && caseFamilySize != nil {
			controlSize := controls.FamilySizes[ctrlIdx]
			if controlSize == nil {
				continue
			}
			diff := *caseFamilySize - *controlSize
			if diff < 0 {
				diff = -diff
			}
			if diff > criteria.FamilySizeTolerance {
				continue
			}
		}

		eligible = append(eligible, ctrlIdx)
	}
	return eligible
}

// performSequentialMatching runs the single-threaded matching loop. Cases
// are processed in case-array order: earlier cases get first pick of
// controls. Returns batch row indices of matched cases and controls, plus
// the per-case control counts.
func performSequentialMatching(
	caseAttrs *ExtractedAttributes,
	controls *ControlData,
	config MatchingConfig,
	rng *rand.Rand,
	logger *slog.Logger,
) (matchedCases, matchedControls, controlCounts []int) {
	logger.Info("using sequential processing", "cases", caseAttrs.Len())

	used := make(map[int]struct{})
	progress := newProgressReporter(logger, "sequential matching", caseAttrs.Len())

	for caseIdx := 0; caseIdx < caseAttrs.Len(); caseIdx++ {
		casePNR := caseAttrs.PNRs[caseIdx]
		caseBirthDay := DayOrdinal(caseAttrs.BirthDates[caseIdx])

		start, end := controls.FindBirthDayRange(caseBirthDay, config.Criteria.BirthDateWindowDays)

		eligible := eligibleControls(
			controls,
			casePNR,
			caseAttrs.Genders[caseIdx],
			caseAttrs.FamilySizes[caseIdx],
			start, end,
			config.Criteria,
			used,
		)

		numToSelect := config.MatchingRatio
		if numToSelect > len(eligible) {
			numToSelect = len(eligible)
		}
		if numToSelect > 0 {
			matchedCases = append(matchedCases, caseAttrs.Indices[caseIdx])
			controlCounts = append(controlCounts, numToSelect)

			partialShuffle(rng, eligible, numToSelect)
			for i := 0; i < numToSelect; i++ {
				ctrlIdx := eligible[i]
				matchedControls = append(matchedControls, controls.Indices[ctrlIdx])
				used[ctrlIdx] = struct{}{}
			}
		}

		progress.step(len(matchedCases))
	}

	progress.finish(len(matchedCases))
	return matchedCases, matchedControls, controlCounts
}
