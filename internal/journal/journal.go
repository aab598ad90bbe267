// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal persists batch run history in a local SQLite database.
// Journal writes are best-effort: the batch driver never fails because the
// journal is unavailable.
// Implements: prd002-run-journal (R1-R3).
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/dng-desqueeze/pkg/types"
)

const dbFile = "journal.db"

// Store manages the run journal SQLite database.
type Store struct {
	db *sql.DB
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID        int64
	StartedAt string
	InputDir  string
	Processed int
	Skipped   int
	Failed    int
}

// NewStore opens or creates the journal database at cfg.Dir/journal.db,
// creating the schema if needed.
func NewStore(cfg types.JournalConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			processed INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			lens_model TEXT,
			status TEXT NOT NULL,
			detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts one run row plus its per-file records and returns the
// new run ID. startedAt is stored in RFC 3339 UTC.
func (s *Store) RecordRun(ctx context.Context, inputDir string, startedAt time.Time, processed, skipped, failed int, records []types.FileRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting journal transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, input_dir, processed, skipped, failed) VALUES (?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), inputDir, processed, skipped, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO files (run_id, source, output, lens_model, status, detail) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, rec.Source, rec.Output, rec.LensModel, string(rec.Status), rec.Detail,
		); err != nil {
			return 0, fmt.Errorf("inserting file record for %s: %w", rec.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing journal transaction: %w", err)
	}
	return runID, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_dir, processed, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.InputDir, &r.Processed, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the per-file records of one run in insertion order.
func (s *Store) Files(ctx context.Context, runID int64) ([]types.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, output, lens_model, status, detail
		 FROM files WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var records []types.FileRecord
	for rows.Next() {
		var rec types.FileRecord
		var status string
		if err := rows.Scan(&rec.Source, &rec.Output, &rec.LensModel, &status, &rec.Detail); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		rec.Status = types.FileStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}
