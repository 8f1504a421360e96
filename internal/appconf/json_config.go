package appconf

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileConfig is the JSON study configuration. It describes where the registry
// extracts live, where outputs go, and the matching parameters for a run.
// Values omitted from the file fall back to the defaults applied by
// LoadFromFile.
type FileConfig struct {
	Env string `json:"env"`

	// Input extracts
	PopulationPath string `json:"population_path"`
	DiagnosesPath  string `json:"diagnoses_path"`

	// Outputs
	OutputDir string `json:"output_dir"`
	DBPath    string `json:"db_path"`

	// Matching parameters
	Matching MatchingFileConfig `json:"matching"`
}

// MatchingFileConfig carries the user-tunable matching parameters. Zero
// values mean "use the engine default".
type MatchingFileConfig struct {
	BirthDateWindowDays int    `json:"birth_date_window_days"`
	MatchingRatio       int    `json:"matching_ratio"`
	RequireSameGender   *bool  `json:"require_same_gender"`
	MatchFamilySize     *bool  `json:"match_family_size"`
	FamilySizeTolerance *int   `json:"family_size_tolerance"`
	UseParallel         *bool  `json:"use_parallel"`
	RandomSeed          *int64 `json:"random_seed"`
}

// LoadFromFile reads and validates a JSON study configuration, applying
// defaults for omitted fields.
func LoadFromFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultFileConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func defaultFileConfig() *FileConfig {
	return &FileConfig{
		Env:       "development",
		OutputDir: ".",
		DBPath:    "./cohort.db",
	}
}

func (c *FileConfig) validate() error {
	if c.PopulationPath == "" {
		return fmt.Errorf("population_path is required")
	}
	switch c.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.Matching.BirthDateWindowDays < 0 {
		return fmt.Errorf("birth_date_window_days must not be negative")
	}
	if c.Matching.MatchingRatio < 0 {
		return fmt.Errorf("matching_ratio must not be negative")
	}
	return nil
}
