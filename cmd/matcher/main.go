package main

import (
	"flag"
	"log/slog"
	"os"

	"cohort.regsund.org/internal/appconf"
)

func main() {
	var cfg appconf.Config
	var envFlag string
	var configPath string
	var overrides FileConfigOverrides

	// Parse command-line flags
	flag.StringVar(&configPath, "config", "", "Path to a JSON study configuration file")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	flag.IntVar(&cfg.MetricsPort, "metrics-port", 0, "Port for the Prometheus metrics listener (0 disables)")
	flag.StringVar(&overrides.PopulationPath, "population", "", "Path to the population Parquet extract")
	flag.StringVar(&overrides.DiagnosesPath, "diagnoses", "", "Path to the diagnosis Parquet extract")
	flag.StringVar(&overrides.OutputDir, "output-dir", "", "Directory for study output files")
	flag.StringVar(&overrides.DBPath, "db-path", "", "Path to the SQLite database for run history")
	flag.IntVar(&overrides.WindowDays, "window-days", 0, "Birth date window in days (0 uses the configured value)")
	flag.IntVar(&overrides.Ratio, "ratio", 0, "Controls to match per case (0 uses the configured value)")
	flag.Int64Var(&overrides.Seed, "seed", -1, "Random seed for reproducible runs (-1 draws a fresh seed)")
	flag.Parse()

	// Convert environment flag to enum
	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)

	fileCfg, err := LoadFileConfig(configPath, envFlag, overrides)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Build application with dependencies
	application, err := BuildApplication(cfg, fileCfg)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	// Run the pipeline with graceful shutdown
	if err := Run(application); err != nil {
		application.Logger.Error("study failed", "error", err)
		os.Exit(1)
	}
}
