// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists the URLs saved on previous runs so the pipeline
// never surfaces the same post on two different days.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/feedpulse/pkg/types"
)

const dbFile = "history.db"

// Entry is one saved post, keyed by (URL, day).
type Entry struct {
	URL       string
	Day       string // YYYY-MM-DD
	Views     int
	Username  string
	EventType string
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dir/history.db and
// creates the schema if it does not exist.
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
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS saved_urls (
			url TEXT NOT NULL,
			day TEXT NOT NULL,
			views INTEGER,
			username TEXT,
			event_type TEXT,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (url, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_urls_day ON saved_urls(day)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun records the final shortlist for day. Re-running the pipeline on
// the same day upserts, so a second run never duplicates rows.
func (s *Store) SaveRun(ctx context.Context, day string, candidates []*types.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO saved_urls (url, day, views, username, event_type, saved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url, day) DO UPDATE SET
			views=excluded.views, username=excluded.username,
			event_type=excluded.event_type, saved_at=excluded.saved_at`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	savedAt := time.Now().UTC().Format(time.RFC3339)
	for _, cand := range candidates {
		_, err := stmt.ExecContext(ctx,
			cand.OriginalURL, day, cand.Views.ValueOrZero(),
			cand.Username, string(cand.EventType), savedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", cand.OriginalURL, err)
		}
	}

	return tx.Commit()
}

// LoadHistorical returns the set of URLs saved on any day other than
// excludeDay. Excluding the current day lets a re-run on the same day keep
// its own earlier results eligible.
func (s *Store) LoadHistorical(ctx context.Context, excludeDay string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT url FROM saved_urls WHERE day != ?`, excludeDay)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	urls := make(map[string]struct{})
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		urls[url] = struct{}{}
	}
	return urls, rows.Err()
}

// Entries returns the stored rows, newest day first, optionally limited to
// one day.
func (s *Store) Entries(ctx context.Context, day string) ([]Entry, error) {
	query := `SELECT url, day, views, username, event_type FROM saved_urls`
	args := []any{}
	if day != "" {
		query += ` WHERE day = ?`
		args = append(args, day)
	}
	query += ` ORDER BY day DESC, views DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.URL, &e.Day, &e.Views, &e.Username, &e.EventType); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
