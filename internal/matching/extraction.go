package matching

import (
	"log/slog"
	"time"

	"cohort.regsund.org/internal/models"
	"cohort.regsund.org/internal/registry"
)

// ExtractedAttributes holds the matching-relevant columns of a batch as
// parallel, index-aligned arrays. Indices[i] is the zero-based row number of
// attribute set i in the source batch, so results can be mapped back without
// copying full records.
type ExtractedAttributes struct {
	PNRs        []string
	BirthDates  []time.Time
	Genders     []*string
	FamilySizes []*int
	Indices     []int
}

// Len returns the number of extracted rows.
func (a *ExtractedAttributes) Len() int { return len(a.PNRs) }

// IsEmpty reports whether no rows survived extraction.
func (a *ExtractedAttributes) IsEmpty() bool { return len(a.PNRs) == 0 }

// ExtractAttributes pulls PNR, birth date, and (when the criteria need them)
// gender and family size out of a batch. Rows with a null PNR or missing
// birth date are skipped. Gender and family size are best effort: a missing
// or mistyped column disables that dimension for the whole batch with a
// warning, a null value disables it for the row.
//
// Returns a ValidationError if the PNR or birth date column is absent.
func ExtractAttributes(batch *registry.Batch, config MatchingConfig, logger *slog.Logger) (*ExtractedAttributes, error) {
	pnrCol, ok := batch.Column(models.ColumnPNR)
	if !ok {
		return nil, validationErrorf("%s column not found", models.ColumnPNR)
	}
	pnrs, ok := pnrCol.(*registry.StringColumn)
	if !ok {
		return nil, validationErrorf("%s column is not a string column", models.ColumnPNR)
	}

	birthCol, ok := batch.Column(models.ColumnBirthDate)
	if !ok {
		return nil, validationErrorf("%s column not found", models.ColumnBirthDate)
	}
	birthDates, ok := birthCol.(*registry.DateColumn)
	if !ok {
		return nil, validationErrorf("%s column is not a date column", models.ColumnBirthDate)
	}

	// Gender is looked up only when gender matching is enabled.
	var genders *registry.StringColumn
	if config.Criteria.RequireSameGender {
		if col, ok := batch.Column(models.ColumnGender); ok {
			if typed, ok := col.(*registry.StringColumn); ok {
				genders = typed
			} else {
				logger.Warn("gender column has unexpected type, gender matching disabled for batch",
					"column", models.ColumnGender)
			}
		} else {
			logger.Warn("gender column not found but gender matching is enabled",
				"column", models.ColumnGender)
		}
	}

	// Family size is looked up only when family size matching is enabled.
	var familySizes *registry.IntColumn
	if config.Criteria.MatchFamilySize {
		if col, ok := batch.Column(models.ColumnFamilySize); ok {
			if typed, ok := col.(*registry.IntColumn); ok {
				familySizes = typed
			} else {
				logger.Warn("family size column has unexpected type, family size matching disabled for batch",
					"column", models.ColumnFamilySize)
			}
		} else {
			logger.Warn("family size column not found but family size matching is enabled",
				"column", models.ColumnFamilySize)
		}
	}

	attrs := &ExtractedAttributes{}
	for i := 0; i < batch.NumRows(); i++ {
		pnr, valid := pnrs.Value(i)
		if !valid || pnr == "" {
			continue
		}

		birthDate, valid := birthDates.Value(i)
		if !valid {
			continue
		}

		var gender *string
		if genders != nil {
			if g, ok := genders.Value(i); ok {
				gender = &g
			}
		}

		var familySize *int
		if familySizes != nil {
			if size, ok := familySizes.Value(i); ok {
				familySize = &size
			}
		}

		attrs.PNRs = append(attrs.PNRs, pnr)
		attrs.BirthDates = append(attrs.BirthDates, birthDate)
		attrs.Genders = append(attrs.Genders, gender)
		attrs.FamilySizes = append(attrs.FamilySizes, familySize)
		attrs.Indices = append(attrs.Indices, i)
	}

	return attrs, nil
}
