package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultMatchingCriteria(t *testing.T) {
	criteria := DefaultMatchingCriteria()

	assert.Equal(t, 30, criteria.BirthDateWindowDays)
	assert.Equal(t, 365, criteria.ParentBirthDateWindowDays)
	assert.False(t, criteria.RequireBothParents)
	assert.True(t, criteria.RequireSameGender)
	assert.True(t, criteria.MatchFamilySize)
	assert.Equal(t, 1, criteria.FamilySizeTolerance)
	assert.False(t, criteria.MatchEducationLevel)
	assert.False(t, criteria.MatchGeography)
	assert.False(t, criteria.MatchParentalStatus)
	assert.False(t, criteria.MatchImmigrantBackground)
}

func TestCriteriaBuilder(t *testing.T) {
	criteria := NewCriteriaBuilder().
		BirthDateWindowDays(14).
		RequireSameGender(false).
		MatchFamilySize(false).
		FamilySizeTolerance(2).
		MatchGeography(true).
		Build()

	assert.Equal(t, 14, criteria.BirthDateWindowDays)
	assert.False(t, criteria.RequireSameGender)
	assert.False(t, criteria.MatchFamilySize)
	assert.Equal(t, 2, criteria.FamilySizeTolerance)
	assert.True(t, criteria.MatchGeography)

	// Untouched fields keep their defaults.
	assert.Equal(t, 365, criteria.ParentBirthDateWindowDays)
	assert.False(t, criteria.MatchEducationLevel)
}

func TestIsBirthDateMatch(t *testing.T) {
	criteria := NewCriteriaBuilder().BirthDateWindowDays(30).Build()
	base := time.Date(2005, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		control  time.Time
		expected bool
	}{
		{"Same day", base, true},
		{"Control younger within window", base.AddDate(0, 0, 30), true},
		{"Control older within window", base.AddDate(0, 0, -30), true},
		{"One day past the window", base.AddDate(0, 0, 31), false},
		{"One day before the window", base.AddDate(0, 0, -31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, criteria.IsBirthDateMatch(base, tt.control))
		})
	}
}

func TestDefaultMatchingConfig(t *testing.T) {
	config := DefaultMatchingConfig()

	assert.Equal(t, 1, config.MatchingRatio)
	assert.True(t, config.UseParallel)
	assert.Nil(t, config.RandomSeed)
	assert.Nil(t, config.MatchingDate)
	assert.Equal(t, DefaultMatchingCriteria(), config.Criteria)
}

func TestConfigBuilder(t *testing.T) {
	matchDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config := NewConfigBuilder().
		Criteria(NewCriteriaBuilder().BirthDateWindowDays(7).Build()).
		MatchingRatio(4).
		UseParallel(false).
		RandomSeed(123).
		MatchingDate(matchDate).
		Build()

	assert.Equal(t, 7, config.Criteria.BirthDateWindowDays)
	assert.Equal(t, 4, config.MatchingRatio)
	assert.False(t, config.UseParallel)
	if assert.NotNil(t, config.RandomSeed) {
		assert.Equal(t, uint64(123), *config.RandomSeed)
	}
	if assert.NotNil(t, config.MatchingDate) {
		assert.Equal(t, matchDate, *config.MatchingDate)
	}
}

func TestCriteriaString(t *testing.T) {
	s := DefaultMatchingCriteria().String()
	assert.Contains(t, s, "Birth date window: ±30 days")
	assert.Contains(t, s, "Require same gender: true")
	assert.Contains(t, s, "Family size tolerance: ±1")
}
