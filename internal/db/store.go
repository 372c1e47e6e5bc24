// Package db is the archive's SQLite storage layer, shared by the scraper
// (writes) and the viewer backend (reads plus flag updates).
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding the scraped archive.
type Store struct {
	db *sql.DB
}

// Open opens (and creates/migrates) the database at the given path.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys=ON;")
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout=5000;")
	_, _ = db.ExecContext(ctx, "PRAGMA synchronous=NORMAL;")

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	// user_version based migrations
	var ver int
	_ = s.db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&ver)

	// v1: base archive schema
	if ver == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS guilds (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL
)`,
			`CREATE TABLE IF NOT EXISTS channels (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  guild_id TEXT,
  FOREIGN KEY (guild_id) REFERENCES guilds (id)
)`,
			`CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  channel_id TEXT,
  guild_id TEXT,
  author_id TEXT,
  author_name TEXT NOT NULL,
  content TEXT,
  timestamp TEXT NOT NULL,
  attachments_count INTEGER DEFAULT 0,
  flag TEXT DEFAULT 'none',
  FOREIGN KEY (channel_id) REFERENCES channels (id),
  FOREIGN KEY (guild_id) REFERENCES guilds (id)
)`,
			`CREATE TABLE IF NOT EXISTS attachments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  message_id TEXT,
  filename TEXT NOT NULL,
  local_path TEXT NOT NULL,
  content_type TEXT,
  FOREIGN KEY (message_id) REFERENCES messages (id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_messages_channel_ts ON messages(channel_id, timestamp)`,
			`CREATE INDEX IF NOT EXISTS idx_messages_flag ON messages(flag)`,
			`CREATE INDEX IF NOT EXISTS idx_attachments_message ON attachments(message_id)`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migrate v1: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, "PRAGMA user_version=1;"); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
