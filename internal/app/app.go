// Package app wires the cohort pipeline together: registry loading, case
// identification, matching, reporting, and run persistence.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"cohort.regsund.org/internal/appconf"
	"cohort.regsund.org/internal/matching"
	"cohort.regsund.org/internal/models"
	"cohort.regsund.org/internal/registry"
	"cohort.regsund.org/internal/report"
	"cohort.regsund.org/internal/scd"
	"cohort.regsund.org/matchdb"
)

// Application holds the shared dependencies of a pipeline run.
type Application struct {
	Config     appconf.Config
	FileConfig *appconf.FileConfig
	Logger     *slog.Logger
	DB         *matchdb.Client
}

// MatchingConfigFromFile translates the user-facing JSON parameters into an
// engine configuration, falling back to engine defaults for omitted values.
func MatchingConfigFromFile(fc appconf.MatchingFileConfig) matching.MatchingConfig {
	criteriaBuilder := matching.NewCriteriaBuilder()
	if fc.BirthDateWindowDays > 0 {
		criteriaBuilder.BirthDateWindowDays(fc.BirthDateWindowDays)
	}
	if fc.RequireSameGender != nil {
		criteriaBuilder.RequireSameGender(*fc.RequireSameGender)
	}
	if fc.MatchFamilySize != nil {
		criteriaBuilder.MatchFamilySize(*fc.MatchFamilySize)
	}
	if fc.FamilySizeTolerance != nil {
		criteriaBuilder.FamilySizeTolerance(*fc.FamilySizeTolerance)
	}

	configBuilder := matching.NewConfigBuilder().Criteria(criteriaBuilder.Build())
	if fc.MatchingRatio > 0 {
		configBuilder.MatchingRatio(fc.MatchingRatio)
	}
	if fc.UseParallel != nil {
		configBuilder.UseParallel(*fc.UseParallel)
	}
	if fc.RandomSeed != nil {
		configBuilder.RandomSeed(uint64(*fc.RandomSeed))
	}
	return configBuilder.Build()
}

// RunStudy executes the full pipeline described by the file configuration:
// load the population and diagnosis extracts, classify severe chronic disease
// to identify cases, match controls, and write the study artifacts.
func (a *Application) RunStudy(ctx context.Context) error {
	fc := a.FileConfig
	if fc.DiagnosesPath == "" {
		return fmt.Errorf("diagnoses_path is required to identify cases")
	}

	a.Logger.Info("loading population extract", slog.String("path", fc.PopulationPath))
	population, err := registry.LoadPopulation(fc.PopulationPath)
	if err != nil {
		return fmt.Errorf("failed to load population: %w", err)
	}
	a.Logger.Info("population loaded", slog.Int("rows", population.NumRows()))

	a.Logger.Info("loading diagnosis extract", slog.String("path", fc.DiagnosesPath))
	diagnoses, err := registry.LoadDiagnoses(fc.DiagnosesPath)
	if err != nil {
		return fmt.Errorf("failed to load diagnoses: %w", err)
	}
	a.Logger.Info("diagnoses loaded", slog.Int("rows", len(diagnoses)))

	birthDates, err := registry.BirthDatesByPNR(population)
	if err != nil {
		return fmt.Errorf("failed to index birth dates: %w", err)
	}

	scdResults := scd.Classify(diagnoses, scd.DefaultConfig(), birthDates)
	casePNRs := scd.CasePNRs(scdResults)
	a.Logger.Info("severe chronic disease classification complete",
		slog.Int("individuals_classified", len(scdResults)),
		slog.Int("cases", len(casePNRs)))

	cases, controls, err := registry.SplitCaseControl(population, casePNRs)
	if err != nil {
		return fmt.Errorf("failed to split case and control groups: %w", err)
	}

	matchConfig := MatchingConfigFromFile(fc.Matching)
	matcher := matching.NewMatcher(matchConfig, a.Logger)
	result, err := matcher.Match(cases, controls)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	matchDate := time.Now().UTC()
	if matchConfig.MatchingDate != nil {
		matchDate = *matchConfig.MatchingDate
	}
	pairs, err := result.Pairs(cases, controls, matchDate)
	if err != nil {
		return fmt.Errorf("failed to project matched pairs: %w", err)
	}

	if err := a.writeArtifacts(result, pairs, cases, controls); err != nil {
		return err
	}
	if err := a.persistRun(ctx, result, pairs, matchConfig, cases.NumRows()); err != nil {
		return err
	}

	a.Logger.Info("study complete",
		slog.String("run_id", result.RunID),
		slog.Int("matched_cases", result.MatchedCaseCount),
		slog.Int("matched_controls", result.MatchedControlCount))
	return nil
}

func (a *Application) writeArtifacts(result *matching.MatchingResult, pairs []matching.MatchedPair, cases, controls *registry.Batch) error {
	pairsPath := filepath.Join(a.FileConfig.OutputDir, "matched_pairs.csv.gz")
	if err := report.WritePairs(pairsPath, pairs); err != nil {
		return fmt.Errorf("failed to write matched pairs: %w", err)
	}
	a.Logger.Info("matched pairs written", slog.String("path", pairsPath))

	if len(result.MatchedCases) == 0 {
		a.Logger.Warn("no matches produced, skipping balance report")
		return nil
	}

	matchedCases, err := cases.Select(result.MatchedCases)
	if err != nil {
		return fmt.Errorf("failed to project matched cases: %w", err)
	}
	matchedControls, err := controls.Select(result.MatchedControls)
	if err != nil {
		return fmt.Errorf("failed to project matched controls: %w", err)
	}

	balance := report.AssessBalance(matchedCases, matchedControls, map[string]bool{models.ColumnPNR: true})
	a.Logger.Info("covariate balance assessed",
		slog.Int("covariates", balance.Summary.TotalCovariates),
		slog.Int("imbalanced", balance.Summary.ImbalancedCovariates),
		slog.Float64("max_std_diff", balance.Summary.MaxStandardizedDifference))
	if a.Config.Verbose {
		fmt.Println(balance.String())
	}

	balancePath := filepath.Join(a.FileConfig.OutputDir, "balance.csv")
	if err := balance.WriteCSV(balancePath); err != nil {
		return fmt.Errorf("failed to write balance report: %w", err)
	}
	a.Logger.Info("balance report written", slog.String("path", balancePath))
	return nil
}

func (a *Application) persistRun(ctx context.Context, result *matching.MatchingResult, pairs []matching.MatchedPair, config matching.MatchingConfig, totalCases int) error {
	if a.DB == nil {
		return nil
	}

	run := matchdb.Run{
		ID:                  result.RunID,
		Seed:                int64(result.Seed),
		TotalCases:          int64(totalCases),
		MatchedCases:        int64(result.MatchedCaseCount),
		MatchedControls:     int64(result.MatchedControlCount),
		MatchingRatio:       int64(config.MatchingRatio),
		BirthDateWindowDays: int64(config.Criteria.BirthDateWindowDays),
		Parallel:            config.UseParallel,
		DurationMs:          result.MatchingTime.Milliseconds(),
		CreatedAt:           time.Now().Unix(),
	}

	dbPairs := make([]matchdb.Pair, 0, len(pairs))
	for _, p := range pairs {
		dbPairs = append(dbPairs, matchdb.Pair{
			CasePNR:          p.CasePNR,
			CaseBirthDate:    p.CaseBirthDate.Format("2006-01-02"),
			ControlPNR:       p.ControlPNR,
			ControlBirthDate: p.ControlBirthDate.Format("2006-01-02"),
			MatchDate:        p.MatchDate.Format("2006-01-02"),
		})
	}

	if err := a.DB.Queries.SaveRun(ctx, run, dbPairs); err != nil {
		return fmt.Errorf("failed to persist run: %w", err)
	}
	a.Logger.Info("run persisted", slog.String("run_id", run.ID), slog.Int("pairs", len(dbPairs)))
	return nil
}
