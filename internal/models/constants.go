package models

// Registry column names used across loading, validation, and extraction.
// These follow the Danish national register conventions: BEF for the
// population register, LPR for the patient register.
const (
	// ColumnPNR is the person identifier column (mandatory in every extract)
	ColumnPNR = "PNR"
	// ColumnBirthDate is the BEF birth date column (mandatory)
	ColumnBirthDate = "FOED_DAG"
	// ColumnGender is the BEF gender column (optional)
	ColumnGender = "KOEN"
	// ColumnFamilySize is the BEF number-of-children column (optional)
	ColumnFamilySize = "ANTAL_BOERN"
	// ColumnDiagnosisCode is the LPR primary diagnosis column
	ColumnDiagnosisCode = "C_ADIAG"
	// ColumnDiagnosisDate is the LPR admission date column
	ColumnDiagnosisDate = "D_INDDTO"
)

// Gender codes as they appear in BEF extracts.
const (
	GenderMale   = "M"
	GenderFemale = "K"
)
