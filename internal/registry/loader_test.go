package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort.regsund.org/internal/models"
)

func TestPopulationBatch(t *testing.T) {
	birth := time.Date(2005, 6, 1, 0, 0, 0, 0, time.UTC)
	gender := "K"
	size := int32(3)

	rows := []personRow{
		{PNR: "p-1", BirthDate: &birth, Gender: &gender, FamilySize: &size},
		{PNR: "p-2"},
	}

	batch, err := populationBatch(rows)
	require.NoError(t, err)
	require.Equal(t, 2, batch.NumRows())
	assert.ElementsMatch(t,
		[]string{models.ColumnPNR, models.ColumnBirthDate, models.ColumnGender, models.ColumnFamilySize},
		batch.ColumnNames())

	birthCol, _ := batch.Column(models.ColumnBirthDate)
	dates := birthCol.(*DateColumn)
	got, ok := dates.Value(0)
	assert.True(t, ok)
	assert.Equal(t, birth, got)
	_, ok = dates.Value(1)
	assert.False(t, ok, "missing birth date must surface as null")

	sizeCol, _ := batch.Column(models.ColumnFamilySize)
	sizes := sizeCol.(*IntColumn)
	n, ok := sizes.Value(0)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = sizes.Value(1)
	assert.False(t, ok)
}

func TestLoadPopulationMissingFile(t *testing.T) {
	_, err := LoadPopulation("testdata/does-not-exist.parquet")
	assert.Error(t, err)
}
