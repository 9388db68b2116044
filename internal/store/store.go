// Package store handles SQLite persistence of history and preferences.
//
// Values live in a small key/value table as human-readable JSON or plain
// strings, so the database can be inspected with the sqlite3 shell.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/typedash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Storage keys.
const (
	HistoryKey = "typing_history_v1"
	ThemeKey   = "typing_theme"
)

// MaxHistory caps the number of kept history entries.
const MaxHistory = 10

// Store wraps SQLite access for history and preferences.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get returns the raw value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, s.db, key)
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return set(ctx, s.db, key, value)
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

func get(ctx context.Context, q querier, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func set(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// RecordHistory prepends entry to the history and drops entries beyond
// MaxHistory.
func (s *Store) RecordHistory(ctx context.Context, entry model.HistoryEntry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	entries, err := readHistory(ctx, tx)
	if err != nil {
		return err
	}
	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err = set(ctx, tx, HistoryKey, string(data)); err != nil {
		return err
	}
	return tx.Commit()
}

// ListHistory returns history entries newest first. Missing or unreadable
// history is reported as empty.
func (s *Store) ListHistory(ctx context.Context) ([]model.HistoryEntry, error) {
	return readHistory(ctx, s.db)
}

// ClearHistory removes all history entries.
func (s *Store) ClearHistory(ctx context.Context) error {
	return s.Delete(ctx, HistoryKey)
}

func readHistory(ctx context.Context, q querier) ([]model.HistoryEntry, error) {
	raw, ok, err := get(ctx, q, HistoryKey)
	if err != nil || !ok {
		return nil, err
	}
	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("discarding unreadable history", "error", err)
		return nil, nil
	}
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	return entries, nil
}

// Theme returns the saved theme, defaulting to dark when unset or invalid.
func (s *Store) Theme(ctx context.Context) (model.Theme, error) {
	raw, ok, err := s.Get(ctx, ThemeKey)
	if err != nil {
		return model.ThemeDark, err
	}
	if !ok {
		return model.ThemeDark, nil
	}
	theme, err := model.ParseTheme(raw)
	if err != nil {
		slog.Warn("ignoring unknown theme", "value", raw)
		return model.ThemeDark, nil
	}
	return theme, nil
}

// SetTheme saves the theme preference.
func (s *Store) SetTheme(ctx context.Context, theme model.Theme) error {
	return s.Set(ctx, ThemeKey, string(theme))
}
