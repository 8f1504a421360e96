// Package scd implements the severe chronic disease (SCD) algorithm: ICD-10
// driven classification of individuals into disease categories with severity
// levels. Its output drives the case/control split for cohort matching.
package scd

import (
	"strings"
	"time"

	"cohort.regsund.org/internal/models"
)

// Config bounds which diagnoses count towards SCD classification.
type Config struct {
	// StartDate and EndDate bound the study period; diagnoses outside it
	// are ignored. Nil means unbounded.
	StartDate *time.Time
	EndDate   *time.Time

	// IncludeCongenital counts congenital (Q-code) diseases as SCD.
	IncludeCongenital bool

	// MinAgeYears and MaxAgeYears bound the age at diagnosis. Nil means
	// unbounded.
	MinAgeYears *int
	MaxAgeYears *int
}

// DefaultConfig returns an unbounded configuration that includes congenital
// diseases.
func DefaultConfig() Config {
	return Config{IncludeCongenital: true}
}

// Result is the per-individual outcome of the SCD algorithm.
type Result struct {
	PNR                  string
	HasSCD               bool
	Category             Category
	Severity             Severity
	IsCongenital         bool
	FirstDiagnosisDate   *time.Time
	HospitalizationCount int
}

// Classification holds one categorized ICD-10 code.
type Classification struct {
	Category     Category
	IsCongenital bool
	Severity     Severity
}

// Classify runs the SCD algorithm over a set of diagnosis records and
// returns results keyed by PNR. Individuals without any qualifying diagnosis
// get a result with HasSCD false. birthDates is used for age-at-diagnosis
// filtering; individuals absent from it skip the age filter.
func Classify(diagnoses []models.Diagnosis, config Config, birthDates map[string]time.Time) map[string]Result {
	results := make(map[string]Result)

	for _, diagnosis := range diagnoses {
		result, ok := results[diagnosis.PNR]
		if !ok {
			result = Result{PNR: diagnosis.PNR}
		}
		// Diagnosis count proxies hospitalization count until admission
		// records are wired in.
		result.HospitalizationCount++

		if includeDiagnosis(diagnosis, config, birthDates) {
			if classification, ok := CategorizeCode(diagnosis.Code); ok {
				if !classification.IsCongenital || config.IncludeCongenital {
					applyClassification(&result, classification, diagnosis.Date)
				}
			}
		}

		results[diagnosis.PNR] = result
	}

	return results
}

// CasePNRs returns the set of PNRs classified as having SCD.
func CasePNRs(results map[string]Result) map[string]struct{} {
	cases := make(map[string]struct{})
	for pnr, result := range results {
		if result.HasSCD {
			cases[pnr] = struct{}{}
		}
	}
	return cases
}

func includeDiagnosis(diagnosis models.Diagnosis, config Config, birthDates map[string]time.Time) bool {
	if diagnosis.Date != nil {
		if config.StartDate != nil && diagnosis.Date.Before(*config.StartDate) {
			return false
		}
		if config.EndDate != nil && diagnosis.Date.After(*config.EndDate) {
			return false
		}
		if birthDate, ok := birthDates[diagnosis.PNR]; ok {
			ageYears := int(diagnosis.Date.Sub(birthDate).Hours() / 24 / 365)
			if config.MinAgeYears != nil && ageYears < *config.MinAgeYears {
				return false
			}
			if config.MaxAgeYears != nil && ageYears > *config.MaxAgeYears {
				return false
			}
		}
	}
	return true
}

func applyClassification(result *Result, classification Classification, date *time.Time) {
	result.HasSCD = true
	if result.Category == CategoryNone {
		result.Category = classification.Category
	}
	if classification.Severity > result.Severity {
		result.Severity = classification.Severity
	}
	if classification.IsCongenital {
		result.IsCongenital = true
	}
	if date != nil {
		if result.FirstDiagnosisDate == nil || date.Before(*result.FirstDiagnosisDate) {
			d := *date
			result.FirstDiagnosisDate = &d
		}
	}
}

// CategorizeCode classifies an ICD-10 code. The second return value is false
// when the code does not indicate a severe chronic disease.
func CategorizeCode(code string) (Classification, bool) {
	clean := strings.ToUpper(strings.TrimSpace(code))
	if clean == "" {
		return Classification{}, false
	}

	prefix3 := clean
	if len(prefix3) > 3 {
		prefix3 = prefix3[:3]
	}

	switch clean[0] {
	case 'C':
		// Cancers are always severe.
		return Classification{CategoryBloodDisorder, false, SeveritySevere}, true

	case 'D':
		switch prefix3 {
		case "D80", "D81", "D82", "D83", "D84", "D86", "D89":
			return Classification{CategoryImmuneDisorder, false, SeverityModerate}, true
		case "D55", "D56", "D57", "D58", "D59", "D60", "D61", "D64", "D65", "D66",
			"D67", "D68", "D69", "D70", "D71", "D72", "D73", "D76":
			severity := SeverityModerate
			if prefix3 == "D57" { // sickle cell disorders
				severity = SeveritySevere
			}
			return Classification{CategoryBloodDisorder, false, severity}, true
		}

	case 'E':
		switch prefix3 {
		case "E22", "E23", "E24", "E25", "E26", "E27", "E31", "E34", "E70", "E71",
			"E72", "E73", "E74", "E75", "E76", "E77", "E78", "E79", "E80", "E83",
			"E84", "E85", "E88":
			severity := SeverityModerate
			if prefix3 == "E84" { // cystic fibrosis
				severity = SeveritySevere
			}
			return Classification{CategoryEndocrineDisorder, false, severity}, true
		}

	case 'F':
		if prefix3 == "F84" { // autism spectrum disorders
			return Classification{CategoryNeurologicalDisorder, false, SeverityModerate}, true
		}

	case 'G':
		switch prefix3 {
		case "G11", "G12", "G13", "G23", "G24", "G25", "G31", "G40", "G41", "G70",
			"G71", "G72", "G80", "G81", "G82":
			severity := SeverityModerate
			if prefix3 == "G12" || prefix3 == "G71" { // motor neuron disease, muscular dystrophy
				severity = SeveritySevere
			}
			return Classification{CategoryNeurologicalDisorder, false, severity}, true
		}

	case 'I':
		switch prefix3 {
		case "I27", "I42", "I43", "I50", "I81", "I82", "I83":
			severity := SeverityModerate
			if prefix3 == "I50" { // heart failure
				severity = SeveritySevere
			}
			return Classification{CategoryCardiovascularDisorder, false, severity}, true
		}

	case 'J':
		switch prefix3 {
		case "J41", "J42", "J43", "J44", "J45", "J47", "J60", "J61", "J62", "J63",
			"J64", "J65", "J66", "J67", "J68", "J69", "J70", "J84", "J96":
			severity := SeverityModerate
			switch prefix3 {
			case "J44", "J96": // COPD, respiratory failure
				severity = SeveritySevere
			case "J45": // asthma
				severity = SeverityMild
			}
			return Classification{CategoryRespiratoryDisorder, false, severity}, true
		}

	case 'K':
		switch prefix3 {
		case "K50", "K51", "K73", "K74", "K86", "K87", "K90":
			severity := SeverityModerate
			if prefix3 == "K74" { // liver fibrosis/cirrhosis
				severity = SeveritySevere
			}
			return Classification{CategoryGastrointestinalDisorder, false, severity}, true
		}

	case 'M':
		switch prefix3 {
		case "M05", "M06", "M07", "M08", "M09", "M30", "M31", "M32", "M33", "M34",
			"M35", "M40", "M41", "M42", "M43", "M45", "M46":
			severity := SeverityModerate
			if prefix3 == "M32" || prefix3 == "M34" { // lupus, systemic sclerosis
				severity = SeveritySevere
			}
			return Classification{CategoryMusculoskeletalDisorder, false, severity}, true
		}

	case 'N':
		switch prefix3 {
		case "N01", "N02", "N03", "N04", "N05", "N06", "N07", "N08", "N11", "N12",
			"N13", "N14", "N15", "N16", "N18", "N19", "N20", "N21", "N22", "N23",
			"N24", "N25", "N26", "N27", "N28", "N29":
			severity := SeverityModerate
			if prefix3 == "N18" || prefix3 == "N19" {
				// Chronic kidney disease: stage 4-5 is severe.
				if len(clean) > 3 && clean[3] >= '4' && clean[3] <= '9' {
					severity = SeveritySevere
				}
			}
			return Classification{CategoryRenalDisorder, false, severity}, true
		}

	case 'P':
		if prefix3 == "P27" { // chronic perinatal respiratory disease
			return Classification{CategoryRespiratoryDisorder, true, SeverityModerate}, true
		}

	case 'Q':
		switch prefix3 {
		case "Q01", "Q02", "Q03", "Q04", "Q05", "Q06", "Q07":
			return Classification{CategoryNeurologicalDisorder, true, SeveritySevere}, true
		case "Q20", "Q21", "Q22", "Q23", "Q24", "Q25", "Q26", "Q27", "Q28":
			return Classification{CategoryCardiovascularDisorder, true, SeveritySevere}, true
		case "Q30", "Q31", "Q32", "Q33", "Q34":
			return Classification{CategoryRespiratoryDisorder, true, SeverityModerate}, true
		case "Q35", "Q36", "Q37":
			return Classification{CategoryCongenitalDisorder, true, SeverityModerate}, true
		case "Q38", "Q39", "Q40", "Q41", "Q42", "Q43", "Q44", "Q45":
			return Classification{CategoryGastrointestinalDisorder, true, SeverityModerate}, true
		case "Q60", "Q61", "Q62", "Q63", "Q64":
			return Classification{CategoryRenalDisorder, true, SeverityModerate}, true
		case "Q77", "Q78", "Q79":
			return Classification{CategoryMusculoskeletalDisorder, true, SeverityModerate}, true
		case "Q80", "Q81", "Q82", "Q83", "Q84", "Q85", "Q86", "Q87", "Q89":
			return Classification{CategoryCongenitalDisorder, true, SeverityModerate}, true
		}
	}

	return Classification{}, false
}
