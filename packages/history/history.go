// Package history persists story run summaries to a SQLite database so
// past runs can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// RunRecord is one persisted story run.
type RunRecord struct {
	ID        uuid.UUID
	StoryPath string
	Status    string
	Failure   string
	Duration  time.Duration
	StartedAt time.Time
}

// Store records story runs in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	story_path TEXT NOT NULL,
	status TEXT NOT NULL,
	failure TEXT,
	duration_ms INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_story_path ON runs(story_path);
`

// Open opens (and initializes if needed) a history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a run record, assigning it an id when absent.
func (s *Store) RecordRun(ctx context.Context, rec RunRecord) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, story_path, status, failure, duration_ms, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.StoryPath, rec.Status, rec.Failure, rec.Duration.Milliseconds(), rec.StartedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("recording run: %w", err)
	}
	return rec.ID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, story_path, status, failure, duration_ms, started_at FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var id string
		var durationMs int64
		if err := rows.Scan(&id, &rec.StoryPath, &rec.Status, &rec.Failure, &durationMs, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing run id: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}
