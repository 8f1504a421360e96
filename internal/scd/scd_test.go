package scd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort.regsund.org/internal/models"
)

func TestCategorizeCode(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		category   Category
		severity   Severity
		congenital bool
		isSCD      bool
	}{
		{"Cancer is always severe", "C911", CategoryBloodDisorder, SeveritySevere, false, true},
		{"Immune deficiency", "D801", CategoryImmuneDisorder, SeverityModerate, false, true},
		{"Sickle cell is severe", "D570", CategoryBloodDisorder, SeveritySevere, false, true},
		{"Hemolytic anemia", "D55", CategoryBloodDisorder, SeverityModerate, false, true},
		{"Cystic fibrosis is severe", "E840", CategoryEndocrineDisorder, SeveritySevere, false, true},
		{"Metabolic disorder", "E70", CategoryEndocrineDisorder, SeverityModerate, false, true},
		{"Autism spectrum", "F840", CategoryNeurologicalDisorder, SeverityModerate, false, true},
		{"Muscular dystrophy is severe", "G710", CategoryNeurologicalDisorder, SeveritySevere, false, true},
		{"Epilepsy", "G40", CategoryNeurologicalDisorder, SeverityModerate, false, true},
		{"Heart failure is severe", "I500", CategoryCardiovascularDisorder, SeveritySevere, false, true},
		{"Cardiomyopathy", "I42", CategoryCardiovascularDisorder, SeverityModerate, false, true},
		{"Asthma is mild", "J450", CategoryRespiratoryDisorder, SeverityMild, false, true},
		{"COPD is severe", "J449", CategoryRespiratoryDisorder, SeveritySevere, false, true},
		{"Crohn's disease", "K50", CategoryGastrointestinalDisorder, SeverityModerate, false, true},
		{"Cirrhosis is severe", "K740", CategoryGastrointestinalDisorder, SeveritySevere, false, true},
		{"Juvenile arthritis", "M08", CategoryMusculoskeletalDisorder, SeverityModerate, false, true},
		{"Lupus is severe", "M32", CategoryMusculoskeletalDisorder, SeveritySevere, false, true},
		{"CKD stage 3 is moderate", "N183", CategoryRenalDisorder, SeverityModerate, false, true},
		{"CKD stage 5 is severe", "N185", CategoryRenalDisorder, SeveritySevere, false, true},
		{"Perinatal respiratory disease", "P270", CategoryRespiratoryDisorder, SeverityModerate, true, true},
		{"Spina bifida", "Q05", CategoryNeurologicalDisorder, SeveritySevere, true, true},
		{"Congenital heart defect", "Q210", CategoryCardiovascularDisorder, SeveritySevere, true, true},
		{"Cleft palate", "Q35", CategoryCongenitalDisorder, SeverityModerate, true, true},
		{"Cystic kidney disease", "Q61", CategoryRenalDisorder, SeverityModerate, true, true},
		{"Lowercase input is normalized", "j449", CategoryRespiratoryDisorder, SeveritySevere, false, true},
		{"Whitespace is trimmed", " E84 ", CategoryEndocrineDisorder, SeveritySevere, false, true},
		{"Common cold is not SCD", "J00", 0, 0, false, false},
		{"Fracture is not SCD", "S52", 0, 0, false, false},
		{"Empty code", "", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classification, ok := CategorizeCode(tt.code)
			require.Equal(t, tt.isSCD, ok)
			if !tt.isSCD {
				return
			}
			assert.Equal(t, tt.category, classification.Category)
			assert.Equal(t, tt.severity, classification.Severity)
			assert.Equal(t, tt.congenital, classification.IsCongenital)
		})
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestClassify(t *testing.T) {
	diagnoses := []models.Diagnosis{
		{PNR: "p-1", Code: "J450", Date: datePtr(2012, 5, 1)},
		{PNR: "p-1", Code: "J449", Date: datePtr(2011, 3, 1)},
		{PNR: "p-2", Code: "J00", Date: datePtr(2012, 1, 1)},
		{PNR: "p-3", Code: "Q210", Date: datePtr(2010, 8, 1)},
	}

	results := Classify(diagnoses, DefaultConfig(), nil)
	require.Len(t, results, 3)

	p1 := results["p-1"]
	assert.True(t, p1.HasSCD)
	assert.Equal(t, CategoryRespiratoryDisorder, p1.Category)
	assert.Equal(t, SeveritySevere, p1.Severity, "severity keeps the worst diagnosis")
	assert.Equal(t, 2, p1.HospitalizationCount)
	require.NotNil(t, p1.FirstDiagnosisDate)
	assert.Equal(t, *datePtr(2011, 3, 1), *p1.FirstDiagnosisDate)

	p2 := results["p-2"]
	assert.False(t, p2.HasSCD)
	assert.Equal(t, 1, p2.HospitalizationCount)

	p3 := results["p-3"]
	assert.True(t, p3.HasSCD)
	assert.True(t, p3.IsCongenital)
}

func TestClassifyExcludesCongenitalWhenConfigured(t *testing.T) {
	diagnoses := []models.Diagnosis{
		{PNR: "p-1", Code: "Q210", Date: datePtr(2010, 8, 1)},
	}

	config := DefaultConfig()
	config.IncludeCongenital = false

	results := Classify(diagnoses, config, nil)
	assert.False(t, results["p-1"].HasSCD)
}

func TestClassifyStudyPeriodFilter(t *testing.T) {
	diagnoses := []models.Diagnosis{
		{PNR: "p-1", Code: "J449", Date: datePtr(2005, 1, 1)},
		{PNR: "p-2", Code: "J449", Date: datePtr(2012, 1, 1)},
	}

	config := DefaultConfig()
	config.StartDate = datePtr(2010, 1, 1)
	config.EndDate = datePtr(2015, 1, 1)

	results := Classify(diagnoses, config, nil)
	assert.False(t, results["p-1"].HasSCD, "diagnosis before the study period must not count")
	assert.True(t, results["p-2"].HasSCD)
}

func TestClassifyAgeFilter(t *testing.T) {
	birthDates := map[string]time.Time{
		"p-1": time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		"p-2": time.Date(2008, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	diagnoses := []models.Diagnosis{
		{PNR: "p-1", Code: "J449", Date: datePtr(2012, 1, 1)}, // age 22
		{PNR: "p-2", Code: "J449", Date: datePtr(2012, 1, 1)}, // age 4
	}

	maxAge := 17
	config := DefaultConfig()
	config.MaxAgeYears = &maxAge

	results := Classify(diagnoses, config, birthDates)
	assert.False(t, results["p-1"].HasSCD)
	assert.True(t, results["p-2"].HasSCD)
}

func TestCasePNRs(t *testing.T) {
	results := map[string]Result{
		"p-1": {PNR: "p-1", HasSCD: true},
		"p-2": {PNR: "p-2"},
		"p-3": {PNR: "p-3", HasSCD: true},
	}

	cases := CasePNRs(results)
	assert.Len(t, cases, 2)
	_, ok := cases["p-1"]
	assert.True(t, ok)
	_, ok = cases["p-2"]
	assert.False(t, ok)
}

func TestHospitalizationSeverity(t *testing.T) {
	assert.Equal(t, SeverityMild, HospitalizationSeverity(0))
	assert.Equal(t, SeverityMild, HospitalizationSeverity(1))
	assert.Equal(t, SeverityModerate, HospitalizationSeverity(2))
	assert.Equal(t, SeverityModerate, HospitalizationSeverity(4))
	assert.Equal(t, SeveritySevere, HospitalizationSeverity(5))
}
