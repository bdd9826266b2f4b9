// Package storage is the local persistence lane: a SQLite database holding
// the full application state as one JSON blob at a fixed key.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// stateKey is the fixed storage key for the AppState blob.
const stateKey = "app_state"

type Cache struct {
	db *sql.DB
}

func NewCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Load reads the saved state. A missing row or undecodable payload degrades
// to the hard-coded empty default and is never surfaced; a partially decoded
// payload gets every absent field filled with its default.
func (c *Cache) Load(ctx context.Context) core.AppState {
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM app_state WHERE key = ?`, stateKey).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "Failed to read local state, starting empty", "error", err)
		}
		return core.DefaultState()
	}

	var state core.AppState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		slog.WarnContext(ctx, "Local state payload is malformed, starting empty", "error", err)
		return core.DefaultState()
	}
	return state.WithDefaults()
}

// Save serializes the full state to the fixed storage key.
func (c *Cache) Save(ctx context.Context, state core.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO app_state (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		stateKey, string(payload))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
