// Package matchdb persists matching runs and their case-control pairs in a
// SQLite database so studies can be audited and reproduced later.
package matchdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"cohort.regsund.org/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    seed INTEGER NOT NULL,
    total_cases INTEGER NOT NULL,
    matched_cases INTEGER NOT NULL,
    matched_controls INTEGER NOT NULL,
    matching_ratio INTEGER NOT NULL,
    birth_date_window_days INTEGER NOT NULL,
    parallel INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS matched_pairs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id),
    case_pnr TEXT NOT NULL,
    case_birth_date TEXT NOT NULL,
    control_pnr TEXT NOT NULL,
    control_birth_date TEXT NOT NULL,
    match_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_matched_pairs_run_id ON matched_pairs(run_id);
CREATE INDEX IF NOT EXISTS idx_matched_pairs_case_pnr ON matched_pairs(case_pnr);
`

// Client wraps the SQLite database holding run history.
type Client struct {
	DB      *sql.DB
	Queries *Queries
	config  Config
	logger  *slog.Logger
}

// NewClient opens (creating if needed) the database at config.DBPath and
// ensures the schema exists.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "matchdb"))

	db, err := sql.Open("sqlite3", config.DBPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		logging.SafeCloseWithLogging(db, logger, "database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logging.SafeCloseWithLogging(db, logger, "database")
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if config.verbose {
		logger.Debug("database ready", slog.String("path", config.DBPath))
	}

	return &Client{
		DB:      db,
		Queries: &Queries{db: db, batchSize: config.GetBulkInsertBatchSize()},
		config:  config,
		logger:  logger,
	}, nil
}

// Close closes the underlying database.
func (c *Client) Close() error {
	return c.DB.Close()
}

// TableCounts returns row counts for every user table, for debugging.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "database_rows")

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, table := range tables {
		var count int
		if err := c.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
