package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort.regsund.org/internal/models"
)

func populationFixture(t *testing.T) *Batch {
	t.Helper()
	batch := NewBatch(5)
	require.NoError(t, batch.AddColumn(models.ColumnPNR,
		NewStringColumn([]string{"p-1", "p-2", "", "p-4", "p-5"}, []bool{true, true, false, true, true})))
	require.NoError(t, batch.AddColumn(models.ColumnBirthDate,
		NewDateColumn([]time.Time{
			time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2001, 2, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2002, 3, 3, 0, 0, 0, 0, time.UTC),
			time.Date(2003, 4, 4, 0, 0, 0, 0, time.UTC),
			{},
		}, []bool{true, true, true, true, false})))
	return batch
}

func TestSplitCaseControl(t *testing.T) {
	batch := populationFixture(t)
	casePNRs := map[string]struct{}{"p-2": {}, "p-4": {}}

	cases, controls, err := SplitCaseControl(batch, casePNRs)
	require.NoError(t, err)

	assert.Equal(t, 2, cases.NumRows())
	assert.Equal(t, 3, controls.NumRows())

	casePNRCol, _ := cases.Column(models.ColumnPNR)
	pnrs := casePNRCol.(*StringColumn)
	first, _ := pnrs.Value(0)
	second, _ := pnrs.Value(1)
	assert.Equal(t, "p-2", first)
	assert.Equal(t, "p-4", second)

	// The null-PNR row lands on the control side.
	controlPNRCol, _ := controls.Column(models.ColumnPNR)
	controlPNRs := controlPNRCol.(*StringColumn)
	_, valid := controlPNRs.Value(1)
	assert.False(t, valid)
}

func TestSplitCaseControlNoCases(t *testing.T) {
	batch := populationFixture(t)

	cases, controls, err := SplitCaseControl(batch, map[string]struct{}{})
	require.NoError(t, err)
	assert.Equal(t, 0, cases.NumRows())
	assert.Equal(t, batch.NumRows(), controls.NumRows())
}

func TestSplitCaseControlMissingPNRColumn(t *testing.T) {
	batch := NewBatch(0)
	_, _, err := SplitCaseControl(batch, nil)
	assert.Error(t, err)
}

func TestBirthDatesByPNR(t *testing.T) {
	batch := populationFixture(t)

	dates, err := BirthDatesByPNR(batch)
	require.NoError(t, err)

	// p-5 has a null birth date and the third row has a null PNR; both drop.
	assert.Len(t, dates, 3)
	assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), dates["p-1"])
	_, ok := dates["p-5"]
	assert.False(t, ok)
}
