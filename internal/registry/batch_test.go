package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddColumnValidation(t *testing.T) {
	batch := NewBatch(2)

	err := batch.AddColumn("A", NewStringColumn([]string{"x", "y", "z"}, nil))
	require.Error(t, err, "column longer than batch must be rejected")

	require.NoError(t, batch.AddColumn("A", NewStringColumn([]string{"x", "y"}, nil)))
	err = batch.AddColumn("A", NewStringColumn([]string{"x", "y"}, nil))
	require.Error(t, err, "duplicate column name must be rejected")

	assert.True(t, batch.HasColumn("A"))
	assert.False(t, batch.HasColumn("B"))
	assert.Equal(t, []string{"A"}, batch.ColumnNames())
}

func TestColumnNullability(t *testing.T) {
	col := NewIntColumn([]int{1, 2, 3}, []bool{true, false, true})

	v, ok := col.Value(0)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = col.Value(1)
	assert.False(t, ok)

	// Nil validity means every row is valid.
	all := NewIntColumn([]int{7}, nil)
	v, ok = all.Value(0)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestSelect(t *testing.T) {
	batch := NewBatch(3)
	require.NoError(t, batch.AddColumn("PNR", NewStringColumn([]string{"a", "b", "c"}, nil)))
	require.NoError(t, batch.AddColumn("N", NewIntColumn([]int{10, 20, 30}, []bool{true, false, true})))
	require.NoError(t, batch.AddColumn("D", NewDateColumn([]time.Time{
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil)))

	selected, err := batch.Select([]int{2, 0, 2})
	require.NoError(t, err)
	require.Equal(t, 3, selected.NumRows())

	pnrCol, _ := selected.Column("PNR")
	pnrs := pnrCol.(*StringColumn)
	got := make([]string, 3)
	for i := range got {
		got[i], _ = pnrs.Value(i)
	}
	assert.Equal(t, []string{"c", "a", "c"}, got)

	// Null values survive projection.
	nCol, _ := selected.Column("N")
	ints := nCol.(*IntColumn)
	v, ok := ints.Value(1)
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	full, err := batch.Select([]int{1})
	require.NoError(t, err)
	nCol, _ = full.Column("N")
	_, ok = nCol.(*IntColumn).Value(0)
	assert.False(t, ok)
}

func TestSelectOutOfBounds(t *testing.T) {
	batch := NewBatch(1)
	require.NoError(t, batch.AddColumn("PNR", NewStringColumn([]string{"a"}, nil)))

	_, err := batch.Select([]int{1})
	assert.Error(t, err)
	_, err = batch.Select([]int{-1})
	assert.Error(t, err)
}
