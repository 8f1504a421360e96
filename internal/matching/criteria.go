package matching

import (
	"fmt"
	"time"
)

// MatchingCriteria defines the constraints a control must satisfy to be an
// eligible match for a case. Instances are immutable once built and safe to
// share across goroutines.
//
// MatchEducationLevel, MatchGeography, MatchParentalStatus,
// MatchImmigrantBackground, and RequireBothParents are accepted and reported
// but not enforced by the matching loop; they document study intent only.
type MatchingCriteria struct {
	// BirthDateWindowDays is the maximum allowed difference in days between
	// case and control birth dates.
	BirthDateWindowDays int

	// ParentBirthDateWindowDays is the maximum allowed difference in days
	// between case and control parent birth dates.
	ParentBirthDateWindowDays int

	// RequireBothParents requires both parents to be present for matching.
	RequireBothParents bool

	// RequireSameGender requires case and control genders to be equal.
	RequireSameGender bool

	// MatchFamilySize enables matching on family size (number of siblings).
	MatchFamilySize bool

	// FamilySizeTolerance is the maximum allowed family size difference.
	FamilySizeTolerance int

	// MatchEducationLevel enables matching on parental education level.
	MatchEducationLevel bool

	// MatchGeography enables matching on municipality.
	MatchGeography bool

	// MatchParentalStatus enables matching on parental relationship status.
	MatchParentalStatus bool

	// MatchImmigrantBackground enables matching on immigrant background.
	MatchImmigrantBackground bool
}

// DefaultMatchingCriteria returns the standard study criteria: birth dates
// within a month, parent ages within a year, same gender, family size ±1.
func DefaultMatchingCriteria() MatchingCriteria {
	return MatchingCriteria{
		BirthDateWindowDays:       30,
		ParentBirthDateWindowDays: 365,
		RequireBothParents:        false,
		RequireSameGender:         true,
		MatchFamilySize:           true,
		FamilySizeTolerance:       1,
		MatchEducationLevel:       false,
		MatchGeography:            false,
		MatchParentalStatus:       false,
		MatchImmigrantBackground:  false,
	}
}

// IsBirthDateMatch reports whether a control birth date falls within the
// allowable window of a case birth date.
func (c MatchingCriteria) IsBirthDateMatch(caseBirthDate, controlBirthDate time.Time) bool {
	diff := DayOrdinal(controlBirthDate) - DayOrdinal(caseBirthDate)
	if diff < 0 {
		diff = -diff
	}
	return diff <= c.BirthDateWindowDays
}

// String renders a human-readable dump of the criteria.
func (c MatchingCriteria) String() string {
	return fmt.Sprintf(
		"Matching Criteria:\n"+
			" - Birth date window: ±%d days\n"+
			" - Parent birth date window: ±%d days\n"+
			" - Require both parents: %t\n"+
			" - Require same gender: %t\n"+
			" - Match family size: %t\n"+
			" - Family size tolerance: ±%d\n"+
			" - Match education level: %t\n"+
			" - Match geography: %t\n"+
			" - Match parental status: %t\n"+
			" - Match immigrant background: %t",
		c.BirthDateWindowDays,
		c.ParentBirthDateWindowDays,
		c.RequireBothParents,
		c.RequireSameGender,
		c.MatchFamilySize,
		c.FamilySizeTolerance,
		c.MatchEducationLevel,
		c.MatchGeography,
		c.MatchParentalStatus,
		c.MatchImmigrantBackground,
	)
}

// CriteriaBuilder builds MatchingCriteria with a fluent interface. All fields
// start at the defaults from DefaultMatchingCriteria.
type CriteriaBuilder struct {
	criteria MatchingCriteria
}

// NewCriteriaBuilder returns a builder seeded with the default criteria.
func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{criteria: DefaultMatchingCriteria()}
}

func (b *CriteriaBuilder) BirthDateWindowDays(days int) *CriteriaBuilder {
	b.criteria.BirthDateWindowDays = days
	return b
}

func (b *CriteriaBuilder) ParentBirthDateWindowDays(days int) *CriteriaBuilder {
	b.criteria.ParentBirthDateWindowDays = days
	return b
}

func (b *CriteriaBuilder) RequireBothParents(required bool) *CriteriaBuilder {
	b.criteria.RequireBothParents = required
	return b
}

func (b *CriteriaBuilder) RequireSameGender(required bool) *CriteriaBuilder {
	b.criteria.RequireSameGender = required
	return b
}

func (b *CriteriaBuilder) MatchFamilySize(match bool) *CriteriaBuilder {
	b.criteria.MatchFamilySize = match
	return b
}

func (b *CriteriaBuilder) FamilySizeTolerance(tolerance int) *CriteriaBuilder {
	b.criteria.FamilySizeTolerance = tolerance
	return b
}

func (b *CriteriaBuilder) MatchEducationLevel(match bool) *CriteriaBuilder {
	b.criteria.MatchEducationLevel = match
	return b
}

func (b *CriteriaBuilder) MatchGeography(match bool) *CriteriaBuilder {
	b.criteria.MatchGeography = match
	return b
}

func (b *CriteriaBuilder) MatchParentalStatus(match bool) *CriteriaBuilder {
	b.criteria.MatchParentalStatus = match
	return b
}

func (b *CriteriaBuilder) MatchImmigrantBackground(match bool) *CriteriaBuilder {
	b.criteria.MatchImmigrantBackground = match
	return b
}

// Build returns the assembled criteria.
func (b *CriteriaBuilder) Build() MatchingCriteria {
	return b.criteria
}

// MatchingConfig wraps the criteria with run-level matching parameters.
// Immutable once built; shared by reference across workers.
type MatchingConfig struct {
	// Criteria to apply when filtering eligible controls.
	Criteria MatchingCriteria

	// MatchingRatio is the target number of controls per case (1:N).
	MatchingRatio int

	// UseParallel enables parallel matching for large case populations.
	UseParallel bool

	// RandomSeed makes control selection reproducible when non-nil.
	RandomSeed *uint64

	// MatchingDate is the index date recorded on matched pairs. Nil means
	// the day the run starts.
	MatchingDate *time.Time
}

// DefaultMatchingConfig returns a 1:1, parallel-enabled, unseeded config
// with default criteria.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Criteria:      DefaultMatchingCriteria(),
		MatchingRatio: 1,
		UseParallel:   true,
	}
}

// ConfigBuilder builds a MatchingConfig with a fluent interface.
type ConfigBuilder struct {
	config MatchingConfig
}

// NewConfigBuilder returns a builder seeded with the default configuration.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: DefaultMatchingConfig()}
}

func (b *ConfigBuilder) Criteria(criteria MatchingCriteria) *ConfigBuilder {
	b.config.Criteria = criteria
	return b
}

func (b *ConfigBuilder) MatchingRatio(ratio int) *ConfigBuilder {
	b.config.MatchingRatio = ratio
	return b
}

func (b *ConfigBuilder) UseParallel(parallel bool) *ConfigBuilder {
	b.config.UseParallel = parallel
	return b
}

func (b *ConfigBuilder) RandomSeed(seed uint64) *ConfigBuilder {
	b.config.RandomSeed = &seed
	return b
}

func (b *ConfigBuilder) MatchingDate(date time.Time) *ConfigBuilder {
	b.config.MatchingDate = &date
	return b
}

// Build returns the assembled configuration.
func (b *ConfigBuilder) Build() MatchingConfig {
	return b.config
}
