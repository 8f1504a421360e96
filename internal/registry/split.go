package registry

import (
	"fmt"

	"cohort.regsund.org/internal/models"
)

// SplitCaseControl partitions a population batch into a case batch and a
// control batch based on membership in casePNRs, preserving row order within
// each side. Rows with a null PNR land in the control batch; they are dropped
// later by attribute extraction either way.
func SplitCaseControl(batch *Batch, casePNRs map[string]struct{}) (cases, controls *Batch, err error) {
	pnrCol, ok := batch.Column(models.ColumnPNR)
	if !ok {
		return nil, nil, fmt.Errorf("batch has no %s column", models.ColumnPNR)
	}
	pnrs, ok := pnrCol.(*StringColumn)
	if !ok {
		return nil, nil, fmt.Errorf("%s column is not a string column", models.ColumnPNR)
	}

	var caseRows, controlRows []int
	for i := 0; i < batch.NumRows(); i++ {
		pnr, valid := pnrs.Value(i)
		if valid {
			if _, isCase := casePNRs[pnr]; isCase {
				caseRows = append(caseRows, i)
				continue
			}
		}
		controlRows = append(controlRows, i)
	}

	cases, err = batch.Select(caseRows)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting case rows: %w", err)
	}
	controls, err = batch.Select(controlRows)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting control rows: %w", err)
	}
	return cases, controls, nil
}
