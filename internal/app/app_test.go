package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cohort.regsund.org/internal/appconf"
	"cohort.regsund.org/internal/matching"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func TestMatchingConfigFromFile(t *testing.T) {
	tests := []struct {
		name     string
		input    appconf.MatchingFileConfig
		expected func(t *testing.T, config matching.MatchingConfig)
	}{
		{
			name:  "Empty config keeps engine defaults",
			input: appconf.MatchingFileConfig{},
			expected: func(t *testing.T, config matching.MatchingConfig) {
				assert.Equal(t, matching.DefaultMatchingConfig(), config)
			},
		},
		{
			name: "Window and ratio override",
			input: appconf.MatchingFileConfig{
				BirthDateWindowDays: 14,
				MatchingRatio:       4,
			},
			expected: func(t *testing.T, config matching.MatchingConfig) {
				assert.Equal(t, 14, config.Criteria.BirthDateWindowDays)
				assert.Equal(t, 4, config.MatchingRatio)
				assert.True(t, config.Criteria.RequireSameGender, "untouched criteria keep defaults")
			},
		},
		{
			name: "Criteria toggles",
			input: appconf.MatchingFileConfig{
				RequireSameGender:   boolPtr(false),
				MatchFamilySize:     boolPtr(false),
				FamilySizeTolerance: intPtr(3),
				UseParallel:         boolPtr(false),
			},
			expected: func(t *testing.T, config matching.MatchingConfig) {
				assert.False(t, config.Criteria.RequireSameGender)
				assert.False(t, config.Criteria.MatchFamilySize)
				assert.Equal(t, 3, config.Criteria.FamilySizeTolerance)
				assert.False(t, config.UseParallel)
			},
		},
		{
			name: "Seed is carried over",
			input: appconf.MatchingFileConfig{
				RandomSeed: int64Ptr(42),
			},
			expected: func(t *testing.T, config matching.MatchingConfig) {
				if assert.NotNil(t, config.RandomSeed) {
					assert.Equal(t, uint64(42), *config.RandomSeed)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expected(t, MatchingConfigFromFile(tt.input))
		})
	}
}
