package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	root        TEXT NOT NULL,
	preview     INTEGER NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	total       INTEGER NOT NULL,
	succeeded   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS outcomes (
	file_id            TEXT PRIMARY KEY,
	run_id             TEXT NOT NULL,
	ts                 TIMESTAMP NOT NULL,
	status             TEXT NOT NULL,
	stage              TEXT NOT NULL,
	original_filename  TEXT NOT NULL,
	generated_filename TEXT,
	classification     TEXT NOT NULL,
	metadata           TEXT NOT NULL,
	error              TEXT,
	preview            INTEGER NOT NULL,
	processing_time_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes (run_id);
`

// Store keeps run summaries and per-file outcomes in a local SQLite
// database so past runs can be listed after the process exits.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection. The schema is assumed present.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

func (s *Store) SaveRun(ctx context.Context, run domain.RunSummary) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, preview, started_at, finished_at, total, succeeded, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Preview, run.StartedAt, run.FinishedAt,
		run.Total, run.Succeeded, run.Skipped, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

func (s *Store) SaveOutcome(ctx context.Context, rec domain.OutcomeRecord) error {
	cls, err := json.Marshal(rec.Classification)
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", rec.FileID, err)
	}
	md, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", rec.FileID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outcomes (file_id, run_id, ts, status, stage, original_filename,
		                       generated_filename, classification, metadata, error, preview, processing_time_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.FileID, rec.RunID, rec.Timestamp, string(rec.Status), string(rec.Stage),
		rec.OriginalFilename, rec.GeneratedFilename, string(cls), string(md),
		rec.Error, rec.Preview, rec.ProcessingTimeMS,
	)
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", rec.FileID, err)
	}
	return nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, preview, started_at, finished_at, total, succeeded, skipped, failed
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var run domain.RunSummary
		if err := rows.Scan(&run.ID, &run.Root, &run.Preview, &run.StartedAt, &run.FinishedAt,
			&run.Total, &run.Succeeded, &run.Skipped, &run.Failed); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
