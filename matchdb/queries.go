package matchdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Queries bundles the SQL statements used against the run database.
type Queries struct {
	db        *sql.DB
	batchSize int
}

// Run is one persisted matching run.
type Run struct {
	ID                  string
	Seed                int64
	TotalCases          int64
	MatchedCases        int64
	MatchedControls     int64
	MatchingRatio       int64
	BirthDateWindowDays int64
	Parallel            bool
	DurationMs          int64
	CreatedAt           int64
}

// Pair is one persisted case-control assignment.
type Pair struct {
	ID               int64
	RunID            string
	CasePNR          string
	CaseBirthDate    string
	ControlPNR       string
	ControlBirthDate string
	MatchDate        string
}

const createRun = `
INSERT INTO runs (
    id, seed, total_cases, matched_cases, matched_controls,
    matching_ratio, birth_date_window_days, parallel, duration_ms, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateRun records a run's summary row.
func (q *Queries) CreateRun(ctx context.Context, run Run) error {
	parallel := 0
	if run.Parallel {
		parallel = 1
	}
	_, err := q.db.ExecContext(ctx, createRun,
		run.ID,
		run.Seed,
		run.TotalCases,
		run.MatchedCases,
		run.MatchedControls,
		run.MatchingRatio,
		run.BirthDateWindowDays,
		parallel,
		run.DurationMs,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

const pairFieldCount = 6

// BulkInsertPairs inserts the pairs for a run using multi-row INSERT
// statements, batched to stay under SQLite's variable limit.
func (q *Queries) BulkInsertPairs(ctx context.Context, runID string, pairs []Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for start := 0; start < len(pairs); start += q.batchSize {
		end := start + q.batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batch := pairs[start:end]

		var sb strings.Builder
		sb.WriteString("INSERT INTO matched_pairs (run_id, case_pnr, case_birth_date, control_pnr, control_birth_date, match_date) VALUES ")
		args := make([]any, 0, len(batch)*pairFieldCount)
		for i, p := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?, ?)")
			args = append(args, runID, p.CasePNR, p.CaseBirthDate, p.ControlPNR, p.ControlBirthDate, p.MatchDate)
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("failed to insert pair batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pairs: %w", err)
	}
	return nil
}

const getRun = `
SELECT id, seed, total_cases, matched_cases, matched_controls,
       matching_ratio, birth_date_window_days, parallel, duration_ms, created_at
FROM runs WHERE id = ?
`

// GetRun loads one run by ID.
func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var parallel int64
	err := q.db.QueryRowContext(ctx, getRun, id).Scan(
		&run.ID,
		&run.Seed,
		&run.TotalCases,
		&run.MatchedCases,
		&run.MatchedControls,
		&run.MatchingRatio,
		&run.BirthDateWindowDays,
		&parallel,
		&run.DurationMs,
		&run.CreatedAt,
	)
	if err != nil {
		return Run{}, err
	}
	run.Parallel = parallel != 0
	return run, nil
}

const listRuns = `
SELECT id, seed, total_cases, matched_cases, matched_controls,
       matching_ratio, birth_date_window_days, parallel, duration_ms, created_at
FROM runs ORDER BY created_at DESC LIMIT ?
`

// ListRuns returns the most recent runs, newest first.
func (q *Queries) ListRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below

	var runs []Run
	for rows.Next() {
		var run Run
		var parallel int64
		if err := rows.Scan(
			&run.ID,
			&run.Seed,
			&run.TotalCases,
			&run.MatchedCases,
			&run.MatchedControls,
			&run.MatchingRatio,
			&run.BirthDateWindowDays,
			&parallel,
			&run.DurationMs,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.Parallel = parallel != 0
		runs = append(runs, run)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return runs, rows.Err()
}

const pairsForRun = `
SELECT id, run_id, case_pnr, case_birth_date, control_pnr, control_birth_date, match_date
FROM matched_pairs WHERE run_id = ? ORDER BY id
`

// PairsForRun loads all pairs recorded for a run, in insertion order.
func (q *Queries) PairsForRun(ctx context.Context, runID string) ([]Pair, error) {
	rows, err := q.db.QueryContext(ctx, pairsForRun, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below

	var pairs []Pair
	for rows.Next() {
		var p Pair
		if err := rows.Scan(
			&p.ID,
			&p.RunID,
			&p.CasePNR,
			&p.CaseBirthDate,
			&p.ControlPNR,
			&p.ControlBirthDate,
			&p.MatchDate,
		); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return pairs, rows.Err()
}

// CountPairsForRun returns how many pairs a run produced.
func (q *Queries) CountPairsForRun(ctx context.Context, runID string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM matched_pairs WHERE run_id = ?", runID).Scan(&count)
	return count, err
}

// SaveRun persists a run summary plus its pairs in one call.
func (q *Queries) SaveRun(ctx context.Context, run Run, pairs []Pair) error {
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}
	if err := q.CreateRun(ctx, run); err != nil {
		return err
	}
	return q.BulkInsertPairs(ctx, run.ID, pairs)
}
