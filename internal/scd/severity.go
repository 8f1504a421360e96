package scd

// Severity is the severity level of an SCD diagnosis.
type Severity int

const (
	// SeverityMild covers conditions like asthma.
	SeverityMild Severity = iota + 1
	// SeverityModerate covers most SCD conditions.
	SeverityModerate
	// SeveritySevere covers conditions like cancer, organ failure, and
	// severe congenital anomalies.
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "Mild"
	case SeveritySevere:
		return "Severe"
	default:
		return "Moderate"
	}
}

// HospitalizationSeverity derives a severity level from how often an
// individual was hospitalized during the study period.
func HospitalizationSeverity(hospitalizationCount int) Severity {
	switch {
	case hospitalizationCount >= 5:
		return SeveritySevere
	case hospitalizationCount >= 2:
		return SeverityModerate
	default:
		return SeverityMild
	}
}
