// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local record of past conversion runs in a
// SQLite database. Recording is best effort: a history failure is
// reported to the caller's log but never fails the conversion itself.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Oglaf/DocToMarkdown/pkg/types"
)

const dbFile = "history.db"

// Store manages the conversion history database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database under dir, creating
// the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		markdown_path TEXT,
		status TEXT NOT NULL,
		failed_stage TEXT,
		cause TEXT,
		attachments INTEGER,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	)`)
	return err
}

// Entry is one recorded conversion run.
type Entry struct {
	ID           int64
	Source       string
	MarkdownPath string
	Status       types.Status
	FailedStage  types.Stage
	Cause        string
	Attachments  int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Record inserts one finished job into the history.
func (s *Store) Record(ctx context.Context, job types.Job, res types.Result, started, finished time.Time) error {
	cause := ""
	if res.Err != nil {
		cause = res.Err.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (source, markdown_path, status, failed_stage, cause, attachments, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.Source, res.MarkdownPath, string(res.Status), string(res.FailedStage), cause,
		len(res.Attachments),
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording job: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, markdown_path, status, failed_stage, cause, attachments, started_at, finished_at
		 FROM jobs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status, stage, started, finished string
		if err := rows.Scan(&e.ID, &e.Source, &e.MarkdownPath, &status, &stage, &e.Cause, &e.Attachments, &started, &finished); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Status = types.Status(status)
		e.FailedStage = types.Stage(stage)
		e.StartedAt, _ = time.Parse(time.RFC3339, started)
		e.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
