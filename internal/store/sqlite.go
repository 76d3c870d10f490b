package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"salesprep/internal/split"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL,
	n_splits    INTEGER NOT NULL,
	horizon     INTEGER NOT NULL,
	gap         INTEGER NOT NULL,
	first_week  INTEGER NOT NULL,
	last_week   INTEGER NOT NULL,
	start_date  TEXT NOT NULL,
	panel_rows  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_splits (
	run_id      INTEGER NOT NULL REFERENCES runs(id),
	idx         INTEGER NOT NULL,
	train_start INTEGER NOT NULL,
	train_end   INTEGER NOT NULL,
	test_start  INTEGER NOT NULL,
	test_end    INTEGER NOT NULL,
	train_rows  INTEGER NOT NULL,
	test_rows   INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// ensures the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run record and returns its ID.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, n_splits, horizon, gap, first_week, last_week, start_date, panel_rows)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.NSplits, run.Horizon, run.Gap,
		run.FirstWeek, run.LastWeek, run.StartDate, run.PanelRows,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// RecordSplits inserts the split metadata rows for a run in one
// transaction.
func (s *SQLiteStore) RecordSplits(ctx context.Context, runID int64, splits []split.Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_splits (run_id, idx, train_start, train_end, test_start, test_end, train_rows, test_rows)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sp := range splits {
		if _, err := stmt.ExecContext(ctx, runID, sp.Index,
			sp.TrainStart, sp.TrainEnd, sp.TestStart, sp.TestEnd,
			len(sp.Train), len(sp.Test)); err != nil {
			return fmt.Errorf("inserting split %d: %w", sp.Index, err)
		}
	}
	return tx.Commit()
}

// LatestRun returns the most recent run and its splits, or a nil run if
// none has been recorded.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*Run, []SplitInfo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, n_splits, horizon, gap, first_week, last_week, start_date, panel_rows
		 FROM runs ORDER BY id DESC LIMIT 1`)

	var run Run
	var startedAt string
	err := row.Scan(&run.ID, &startedAt, &run.NSplits, &run.Horizon, &run.Gap,
		&run.FirstWeek, &run.LastWeek, &run.StartDate, &run.PanelRows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying latest run: %w", err)
	}
	if ts, perr := time.Parse(time.RFC3339, startedAt); perr == nil {
		run.StartedAt = ts
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, train_start, train_end, test_start, test_end, train_rows, test_rows
		 FROM run_splits WHERE run_id = ? ORDER BY idx`, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying run splits: %w", err)
	}
	defer rows.Close()

	var infos []SplitInfo
	for rows.Next() {
		var si SplitInfo
		if err := rows.Scan(&si.Index, &si.TrainStart, &si.TrainEnd,
			&si.TestStart, &si.TestEnd, &si.TrainRows, &si.TestRows); err != nil {
			return nil, nil, err
		}
		infos = append(infos, si)
	}
	return &run, infos, rows.Err()
}
