package matching

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// groupCandidates holds the output of the parallel candidate phase for one
// case group: for each case, the pool positions of its eligible controls in
// the order selection should consider them (already shuffled by the group's
// seeded generator).
type groupCandidates struct {
	group      *CaseGroup
	candidates [][]int
}

// performParallelMatching matches large case populations in two phases.
//
// Phase one partitions cases into disjoint birth-day-range groups and runs
// one worker per group. Each worker scans the shared read-only control index
// and produces, per case, a shuffled eligible-candidate list. Workers share
// no mutable state; each derives its generator from the run seed and group
// index, so the phase is reproducible regardless of scheduling.
//
// Phase two walks groups in range order and cases in group order, assigning
// each case the first unused candidates from its shuffled list. Only this
// single-threaded pass touches the used set, which makes the global
// exclusivity invariant structural: no control row can be assigned twice no
// matter how the phase-one workers were scheduled.
func performParallelMatching(
	caseAttrs *ExtractedAttributes,
	controls *ControlData,
	config MatchingConfig,
	seed uint64,
	logger *slog.Logger,
) (matchedCases, matchedControls, controlCounts []int) {
	numWorkers := runtime.NumCPU()
	logger.Info("using parallel processing", "workers", numWorkers, "cases", caseAttrs.Len())

	groups := GroupCasesByBirthDayRange(caseAttrs, numWorkers)
	logger.Info("grouped cases by birth day range", "groups", len(groups))

	// Candidate phase: one worker per group, no shared mutable state.
	results := make([]groupCandidates, len(groups))
	var g errgroup.Group
	for groupIdx, group := range groups {
		g.Go(func() error {
			results[groupIdx] = collectGroupCandidates(group, controls, config, seed, uint64(groupIdx))
			return nil
		})
	}
	// Workers cannot fail; the errgroup only provides the fork-join barrier.
	_ = g.Wait()

	// Resolve phase: deterministic single-threaded assignment.
	used := make(map[int]struct{})
	progress := newProgressReporter(logger, "parallel matching", caseAttrs.Len())

	for _, gc := range results {
		for caseIdx := 0; caseIdx < gc.group.Len(); caseIdx++ {
			selected := 0
			for _, ctrlIdx := range gc.candidates[caseIdx] {
				if selected == config.MatchingRatio {
					break
				}
				if _, taken := used[ctrlIdx]; taken {
					continue
				}
				if selected == 0 {
					matchedCases = append(matchedCases, gc.group.Indices[caseIdx])
				}
				matchedControls = append(matchedControls, controls.Indices[ctrlIdx])
				used[ctrlIdx] = struct{}{}
				selected++
			}
			if selected > 0 {
				controlCounts = append(controlCounts, selected)
			}
			progress.step(len(matchedCases))
		}
	}

	progress.finish(len(matchedCases))
	return matchedCases, matchedControls, controlCounts
}

// collectGroupCandidates runs the eligibility scan for every case in a group
// and shuffles each candidate list with a generator derived from the run
// seed and the group index.
func collectGroupCandidates(
	group *CaseGroup,
	controls *ControlData,
	config MatchingConfig,
	seed, groupIdx uint64,
) groupCandidates {
	rng := newRNG(seed, groupIdx)
	candidates := make([][]int, group.Len())

	for caseIdx := 0; caseIdx < group.Len(); caseIdx++ {
		caseBirthDay := DayOrdinal(group.BirthDates[caseIdx])
		start, end := controls.FindBirthDayRange(caseBirthDay, config.Criteria.BirthDateWindowDays)

		eligible := eligibleControls(
			controls,
			group.PNRs[caseIdx],
			group.Genders[caseIdx],
			group.FamilySizes[caseIdx],
			start, end,
			config.Criteria,
			nil,
		)
		partialShuffle(rng, eligible, len(eligible))
		candidates[caseIdx] = eligible
	}

	return groupCandidates{group: group, candidates: candidates}
}
