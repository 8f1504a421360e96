package models

import "time"

// Diagnosis is a single hospital diagnosis record from a patient register
// extract. Code is an ICD-10 code; Date is the admission date when known.
type Diagnosis struct {
	PNR  string
	Code string
	Date *time.Time
}
