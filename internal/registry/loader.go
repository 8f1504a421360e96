package registry

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"cohort.regsund.org/internal/models"
)

// personRow mirrors one BEF population extract row. Optional register fields
// are pointers so Parquet nulls survive the round trip.
type personRow struct {
	PNR        string     `parquet:"PNR"`
	BirthDate  *time.Time `parquet:"FOED_DAG,optional,date"`
	Gender     *string    `parquet:"KOEN,optional"`
	FamilySize *int32     `parquet:"ANTAL_BOERN,optional"`
}

// diagnosisRow mirrors one LPR patient register extract row.
type diagnosisRow struct {
	PNR  string     `parquet:"PNR"`
	Code string     `parquet:"C_ADIAG"`
	Date *time.Time `parquet:"D_INDDTO,optional,date"`
}

// LoadPopulation reads a BEF-style Parquet extract into a columnar batch
// with PNR, FOED_DAG, KOEN, and ANTAL_BOERN columns.
func LoadPopulation(path string) (*Batch, error) {
	rows, err := parquet.ReadFile[personRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read population extract %s: %w", path, err)
	}
	return populationBatch(rows)
}

func populationBatch(rows []personRow) (*Batch, error) {
	n := len(rows)
	pnrs := make([]string, n)
	birthDates := make([]time.Time, n)
	birthValid := make([]bool, n)
	genders := make([]string, n)
	genderValid := make([]bool, n)
	familySizes := make([]int, n)
	familyValid := make([]bool, n)

	for i, row := range rows {
		pnrs[i] = row.PNR
		if row.BirthDate != nil {
			birthDates[i] = *row.BirthDate
			birthValid[i] = true
		}
		if row.Gender != nil {
			genders[i] = *row.Gender
			genderValid[i] = true
		}
		if row.FamilySize != nil {
			familySizes[i] = int(*row.FamilySize)
			familyValid[i] = true
		}
	}

	batch := NewBatch(n)
	if err := batch.AddColumn(models.ColumnPNR, NewStringColumn(pnrs, nil)); err != nil {
		return nil, err
	}
	if err := batch.AddColumn(models.ColumnBirthDate, NewDateColumn(birthDates, birthValid)); err != nil {
		return nil, err
	}
	if err := batch.AddColumn(models.ColumnGender, NewStringColumn(genders, genderValid)); err != nil {
		return nil, err
	}
	if err := batch.AddColumn(models.ColumnFamilySize, NewIntColumn(familySizes, familyValid)); err != nil {
		return nil, err
	}
	return batch, nil
}

// LoadDiagnoses reads an LPR-style Parquet extract into diagnosis records.
// Rows with an empty PNR or diagnosis code are skipped.
func LoadDiagnoses(path string) ([]models.Diagnosis, error) {
	rows, err := parquet.ReadFile[diagnosisRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read diagnosis extract %s: %w", path, err)
	}

	diagnoses := make([]models.Diagnosis, 0, len(rows))
	for _, row := range rows {
		if row.PNR == "" || row.Code == "" {
			continue
		}
		diagnoses = append(diagnoses, models.Diagnosis{
			PNR:  row.PNR,
			Code: row.Code,
			Date: row.Date,
		})
	}
	return diagnoses, nil
}

// BirthDatesByPNR extracts a PNR → birth date lookup from a population
// batch, skipping rows without a usable PNR or birth date.
func BirthDatesByPNR(batch *Batch) (map[string]time.Time, error) {
	pnrCol, ok := batch.Column(models.ColumnPNR)
	if !ok {
		return nil, fmt.Errorf("batch has no %s column", models.ColumnPNR)
	}
	pnrs, ok := pnrCol.(*StringColumn)
	if !ok {
		return nil, fmt.Errorf("%s column is not a string column", models.ColumnPNR)
	}
	dateCol, ok := batch.Column(models.ColumnBirthDate)
	if !ok {
		return nil, fmt.Errorf("batch has no %s column", models.ColumnBirthDate)
	}
	dates, ok := dateCol.(*DateColumn)
	if !ok {
		return nil, fmt.Errorf("%s column is not a date column", models.ColumnBirthDate)
	}

	out := make(map[string]time.Time, batch.NumRows())
	for i := 0; i < batch.NumRows(); i++ {
		pnr, ok := pnrs.Value(i)
		if !ok || pnr == "" {
			continue
		}
		date, ok := dates.Value(i)
		if !ok {
			continue
		}
		out[pnr] = date
	}
	return out, nil
}
