package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cohort.regsund.org/internal/app"
	"cohort.regsund.org/internal/appconf"
	"cohort.regsund.org/internal/logging"
	"cohort.regsund.org/matchdb"
)

// FileConfigOverrides carries command-line values that take precedence over
// the JSON study configuration.
type FileConfigOverrides struct {
	PopulationPath string
	DiagnosesPath  string
	OutputDir      string
	DBPath         string
	WindowDays     int
	Ratio          int
	Seed           int64
}

// LoadFileConfig builds the effective study configuration: the JSON file (or
// bare defaults when no file is given) with command-line overrides applied.
func LoadFileConfig(configPath, envFlag string, overrides FileConfigOverrides) (*appconf.FileConfig, error) {
	var fileCfg *appconf.FileConfig
	if configPath != "" {
		loaded, err := appconf.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		fileCfg = loaded
	} else {
		fileCfg = &appconf.FileConfig{
			Env:       envFlag,
			OutputDir: ".",
			DBPath:    "./cohort.db",
		}
	}

	if overrides.PopulationPath != "" {
		fileCfg.PopulationPath = overrides.PopulationPath
	}
	if overrides.DiagnosesPath != "" {
		fileCfg.DiagnosesPath = overrides.DiagnosesPath
	}
	if overrides.OutputDir != "" {
		fileCfg.OutputDir = overrides.OutputDir
	}
	if overrides.DBPath != "" {
		fileCfg.DBPath = overrides.DBPath
	}
	if overrides.WindowDays > 0 {
		fileCfg.Matching.BirthDateWindowDays = overrides.WindowDays
	}
	if overrides.Ratio > 0 {
		fileCfg.Matching.MatchingRatio = overrides.Ratio
	}
	if overrides.Seed >= 0 {
		seed := overrides.Seed
		fileCfg.Matching.RandomSeed = &seed
	}

	if fileCfg.PopulationPath == "" {
		return nil, fmt.Errorf("a population extract is required: set -population or population_path in the config file")
	}
	return fileCfg, nil
}

// BuildApplication creates and initializes the Application with all
// dependencies: the logger and the run history database.
func BuildApplication(cfg appconf.Config, fileCfg *appconf.FileConfig) (*app.Application, error) {
	logger := logging.NewLogger(cfg.Env, cfg.Verbose)

	dbClient, err := matchdb.NewClient(context.Background(), matchdb.NewConfig(fileCfg.DBPath, cfg.Env, cfg.Verbose), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run database: %w", err)
	}

	return &app.Application{
		Config:     cfg,
		FileConfig: fileCfg,
		Logger:     logger,
		DB:         dbClient,
	}, nil
}

// Run executes the study pipeline with signal-aware cancellation. When a
// metrics port is configured, a Prometheus listener is served for the
// duration of the run.
func Run(application *app.Application) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsSrv *http.Server
	if application.Config.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", application.Config.MetricsPort),
			Handler: mux,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				application.Logger.Error("metrics listener failed", "error", err)
			}
		}()
		application.Logger.Info("metrics listener started", "addr", metricsSrv.Addr)
	}

	runErr := application.RunStudy(ctx)

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			application.Logger.Error("metrics listener forced to shutdown", "error", err)
		}
	}

	if closeErr := application.DB.Close(); closeErr != nil {
		application.Logger.Error("failed to close run database", "error", closeErr)
	}

	if runErr != nil {
		return runErr
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted: %w", err)
	}
	return nil
}
