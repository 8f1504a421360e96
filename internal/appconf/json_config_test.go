package appconf

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestLoadFromFile_ValidConfig(t *testing.T) {
	config, err := LoadFromFile("../../testdata/config_valid.json")
	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify explicitly set values
	assert.Equal(t, "development", config.Env)
	assert.Equal(t, "./bef.parquet", config.PopulationPath)

	// Verify defaults were applied
	assert.Equal(t, ".", config.OutputDir)
	assert.Equal(t, "./cohort.db", config.DBPath)
	assert.Zero(t, config.Matching.MatchingRatio)
}

func TestLoadFromFile_FullConfig(t *testing.T) {
	config, err := LoadFromFile("../../testdata/config_full.json")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "production", config.Env)
	assert.Equal(t, "/data/bef.parquet", config.PopulationPath)
	assert.Equal(t, "/data/lpr.parquet", config.DiagnosesPath)
	assert.Equal(t, "/data/out", config.OutputDir)
	assert.Equal(t, "/data/cohort.db", config.DBPath)

	assert.Equal(t, 14, config.Matching.BirthDateWindowDays)
	assert.Equal(t, 4, config.Matching.MatchingRatio)
	require.NotNil(t, config.Matching.RandomSeed)
	assert.Equal(t, int64(42), *config.Matching.RandomSeed)
	require.NotNil(t, config.Matching.UseParallel)
	assert.False(t, *config.Matching.UseParallel)
}

func TestLoadFromFile_MalformedJSON(t *testing.T) {
	config, err := LoadFromFile("../../testdata/config_malformed.json")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse JSON config")
}

func TestLoadFromFile_InvalidConfig(t *testing.T) {
	config, err := LoadFromFile("../../testdata/config_invalid.json")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	config, err := LoadFromFile("../../testdata/does_not_exist.json")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config file")
}
