// Package report turns matching results into study artifacts: covariate
// balance assessments and matched-pair exports.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"cohort.regsund.org/internal/registry"
)

// imbalanceThreshold is the conventional standardized-difference cutoff
// above which a covariate is considered imbalanced between groups.
const imbalanceThreshold = 0.1

// BalanceMetric is the balance of one covariate (or one level of a
// categorical covariate) between matched cases and controls.
type BalanceMetric struct {
	Name                   string
	StandardizedDifference float64
	CaseMean               float64
	ControlMean            float64
	CaseStd                float64
	ControlStd             float64
	Categorical            bool
}

// BalanceSummary aggregates a balance report.
type BalanceSummary struct {
	ImbalancedCovariates               int
	MaxStandardizedDifference          float64
	MeanAbsoluteStandardizedDifference float64
	TotalCovariates                    int
}

// BalanceReport is the full covariate balance assessment for a matched
// case-control sample.
type BalanceReport struct {
	Metrics []BalanceMetric
	Summary BalanceSummary
}

// AssessBalance computes standardized differences for every integer column
// (as continuous) and string column (as per-level proportions) shared by the
// matched case and control batches. PNR-like identifier columns should be
// excluded by the caller via the skip set.
func AssessBalance(cases, controls *registry.Batch, skip map[string]bool) *BalanceReport {
	var metrics []BalanceMetric

	for _, name := range cases.ColumnNames() {
		if skip[name] {
			continue
		}
		caseCol, ok := cases.Column(name)
		if !ok {
			continue
		}
		controlCol, ok := controls.Column(name)
		if !ok {
			continue
		}

		switch caseColTyped := caseCol.(type) {
		case *registry.IntColumn:
			controlColTyped, ok := controlCol.(*registry.IntColumn)
			if !ok {
				continue
			}
			metrics = append(metrics, continuousMetric(name, caseColTyped, controlColTyped))
		case *registry.StringColumn:
			controlColTyped, ok := controlCol.(*registry.StringColumn)
			if !ok {
				continue
			}
			metrics = append(metrics, categoricalMetrics(name, caseColTyped, controlColTyped)...)
		}
	}

	return &BalanceReport{Metrics: metrics, Summary: summarize(metrics)}
}

func continuousMetric(name string, cases, controls *registry.IntColumn) BalanceMetric {
	caseMean, caseStd := intStats(cases)
	controlMean, controlStd := intStats(controls)
	return BalanceMetric{
		Name:                   name,
		StandardizedDifference: standardizedDifference(caseMean, controlMean, caseStd, controlStd),
		CaseMean:               caseMean,
		ControlMean:            controlMean,
		CaseStd:                caseStd,
		ControlStd:             controlStd,
	}
}

func categoricalMetrics(name string, cases, controls *registry.StringColumn) []BalanceMetric {
	caseProps := levelProportions(cases)
	controlProps := levelProportions(controls)

	levels := make(map[string]bool)
	for level := range caseProps {
		levels[level] = true
	}
	for level := range controlProps {
		levels[level] = true
	}
	ordered := make([]string, 0, len(levels))
	for level := range levels {
		ordered = append(ordered, level)
	}
	sort.Strings(ordered)

	metrics := make([]BalanceMetric, 0, len(ordered))
	for _, level := range ordered {
		p1 := caseProps[level]
		p2 := controlProps[level]
		s1 := math.Sqrt(p1 * (1 - p1))
		s2 := math.Sqrt(p2 * (1 - p2))
		metrics = append(metrics, BalanceMetric{
			Name:                   fmt.Sprintf("%s=%s", name, level),
			StandardizedDifference: standardizedDifference(p1, p2, s1, s2),
			CaseMean:               p1,
			ControlMean:            p2,
			CaseStd:                s1,
			ControlStd:             s2,
			Categorical:            true,
		})
	}
	return metrics
}

func intStats(col *registry.IntColumn) (mean, std float64) {
	var sum float64
	var n int
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Value(i); ok {
			sum += float64(v)
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)

	var sumSq float64
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Value(i); ok {
			d := float64(v) - mean
			sumSq += d * d
		}
	}
	if n > 1 {
		std = math.Sqrt(sumSq / float64(n-1))
	}
	return mean, std
}

func levelProportions(col *registry.StringColumn) map[string]float64 {
	counts := make(map[string]int)
	var n int
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Value(i); ok {
			counts[v]++
			n++
		}
	}
	props := make(map[string]float64, len(counts))
	if n == 0 {
		return props
	}
	for level, count := range counts {
		props[level] = float64(count) / float64(n)
	}
	return props
}

func standardizedDifference(mean1, mean2, std1, std2 float64) float64 {
	pooled := math.Sqrt((std1*std1 + std2*std2) / 2)
	if pooled == 0 {
		return 0
	}
	return (mean1 - mean2) / pooled
}

func summarize(metrics []BalanceMetric) BalanceSummary {
	summary := BalanceSummary{TotalCovariates: len(metrics)}
	var absSum float64
	for _, m := range metrics {
		abs := math.Abs(m.StandardizedDifference)
		absSum += abs
		if abs > imbalanceThreshold {
			summary.ImbalancedCovariates++
		}
		if abs > summary.MaxStandardizedDifference {
			summary.MaxStandardizedDifference = abs
		}
	}
	if len(metrics) > 0 {
		summary.MeanAbsoluteStandardizedDifference = absSum / float64(len(metrics))
	}
	return summary
}

// String renders the report as a readable table, worst covariates first.
func (r *BalanceReport) String() string {
	var b strings.Builder

	pct := 0.0
	if r.Summary.TotalCovariates > 0 {
		pct = 100 * float64(r.Summary.ImbalancedCovariates) / float64(r.Summary.TotalCovariates)
	}
	fmt.Fprintf(&b,
		"Balance Summary:\n"+
			" - Total covariates: %d\n"+
			" - Imbalanced covariates (std diff > %.1f): %d (%.1f%%)\n"+
			" - Maximum standardized difference: %.4f\n"+
			" - Mean absolute standardized difference: %.4f\n\n",
		r.Summary.TotalCovariates,
		imbalanceThreshold,
		r.Summary.ImbalancedCovariates,
		pct,
		r.Summary.MaxStandardizedDifference,
		r.Summary.MeanAbsoluteStandardizedDifference,
	)

	b.WriteString("Covariate                      | Type        | Case Mean | Control Mean | Std Diff\n")
	b.WriteString("-------------------------------|-------------|-----------|--------------|---------\n")

	for _, m := range r.sortedMetrics() {
		covariateType := "Continuous"
		if m.Categorical {
			covariateType = "Categorical"
		}
		name := m.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Fprintf(&b, "%-30s | %-11s | %9.4f | %12.4f | %8.4f\n",
			name, covariateType, m.CaseMean, m.ControlMean, m.StandardizedDifference)
	}

	return b.String()
}

// WriteCSV writes the report to a CSV file, worst covariates first.
func (r *BalanceReport) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create balance report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"covariate", "type", "case_mean", "control_mean", "case_sd", "control_sd", "std_diff"}); err != nil {
		return fmt.Errorf("failed to write balance report header: %w", err)
	}
	for _, m := range r.sortedMetrics() {
		covariateType := "continuous"
		if m.Categorical {
			covariateType = "categorical"
		}
		record := []string{
			m.Name,
			covariateType,
			fmt.Sprintf("%.6f", m.CaseMean),
			fmt.Sprintf("%.6f", m.ControlMean),
			fmt.Sprintf("%.6f", m.CaseStd),
			fmt.Sprintf("%.6f", m.ControlStd),
			fmt.Sprintf("%.6f", m.StandardizedDifference),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write balance report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (r *BalanceReport) sortedMetrics() []BalanceMetric {
	sorted := make([]BalanceMetric, len(r.Metrics))
	copy(sorted, r.Metrics)
	sort.SliceStable(sorted, func(a, b int) bool {
		return math.Abs(sorted[a].StandardizedDifference) > math.Abs(sorted[b].StandardizedDifference)
	})
	return sorted
}
