package matching

import (
	"time"

	"cohort.regsund.org/internal/models"
	"cohort.regsund.org/internal/registry"
)

// MatchingResult is the outcome of one matching run. MatchedCases and
// MatchedControls are row indices back into the source case and control
// batches. The arrays are ragged: MatchedCases[i] owns ControlCounts[i]
// consecutive entries of MatchedControls, so len(MatchedControls) is the sum
// of ControlCounts. Unmatched cases do not appear at all.
type MatchingResult struct {
	RunID               string
	MatchedCases        []int
	MatchedControls     []int
	ControlCounts       []int
	MatchedCaseCount    int
	MatchedControlCount int
	MatchingTime        time.Duration

	// Seed is the effective random seed for the run, whether supplied or
	// drawn at run start. Re-running with this seed reproduces the result.
	Seed uint64
}

// MatchedPair is one case-control assignment projected for reporting.
type MatchedPair struct {
	CasePNR          string
	CaseBirthDate    time.Time
	ControlPNR       string
	ControlBirthDate time.Time
	MatchDate        time.Time
}

// Pairs projects the result into explicit case-control pairs by reading PNR
// and birth date values back out of the source batches.
func (r *MatchingResult) Pairs(cases, controls *registry.Batch, matchDate time.Time) ([]MatchedPair, error) {
	casePNRs, caseBirths, err := identityColumns(cases)
	if err != nil {
		return nil, err
	}
	controlPNRs, controlBirths, err := identityColumns(controls)
	if err != nil {
		return nil, err
	}

	pairs := make([]MatchedPair, 0, len(r.MatchedControls))
	offset := 0
	for i, caseRow := range r.MatchedCases {
		casePNR, _ := casePNRs.Value(caseRow)
		caseBirth, _ := caseBirths.Value(caseRow)
		for j := 0; j < r.ControlCounts[i]; j++ {
			controlRow := r.MatchedControls[offset+j]
			controlPNR, _ := controlPNRs.Value(controlRow)
			controlBirth, _ := controlBirths.Value(controlRow)
			pairs = append(pairs, MatchedPair{
				CasePNR:          casePNR,
				CaseBirthDate:    caseBirth,
				ControlPNR:       controlPNR,
				ControlBirthDate: controlBirth,
				MatchDate:        matchDate,
			})
		}
		offset += r.ControlCounts[i]
	}
	return pairs, nil
}

func identityColumns(batch *registry.Batch) (*registry.StringColumn, *registry.DateColumn, error) {
	pnrCol, ok := batch.Column(models.ColumnPNR)
	if !ok {
		return nil, nil, validationErrorf("%s column not found", models.ColumnPNR)
	}
	pnrs, ok := pnrCol.(*registry.StringColumn)
	if !ok {
		return nil, nil, validationErrorf("%s column is not a string column", models.ColumnPNR)
	}
	birthCol, ok := batch.Column(models.ColumnBirthDate)
	if !ok {
		return nil, nil, validationErrorf("%s column not found", models.ColumnBirthDate)
	}
	births, ok := birthCol.(*registry.DateColumn)
	if !ok {
		return nil, nil, validationErrorf("%s column is not a date column", models.ColumnBirthDate)
	}
	return pnrs, births, nil
}
