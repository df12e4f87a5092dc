package advisory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"enemyintel/internal/logging"
)

// schemaVersion is stored in PRAGMA user_version. A store written with any
// other version is dropped and recreated empty.
const schemaVersion = 1

// Store persists advisory entries in SQLite. Every Put is committed before
// it returns, and the single connection serializes writers.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the store at path.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.AdvisoryDebug("failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.AdvisoryDebug("failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != 0 && version != schemaVersion {
		logging.Get(logging.CategoryAdvisory).Warn("advisory store %s has schema %d, want %d; recreating", s.path, version, schemaVersion)
		if _, err := s.db.Exec("DROP TABLE IF EXISTS advisories"); err != nil {
			return fmt.Errorf("failed to drop stale table: %w", err)
		}
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS advisories (
		key TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}

// All returns every stored entry.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, text FROM advisories")
	if err != nil {
		return nil, fmt.Errorf("failed to query advisories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, text string
		if err := rows.Scan(&key, &text); err != nil {
			return nil, fmt.Errorf("failed to scan advisory: %w", err)
		}
		out[key] = text
	}
	return out, rows.Err()
}

// Put inserts or replaces one entry.
func (s *Store) Put(ctx context.Context, key, text string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO advisories (key, text, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET text = excluded.text, updated_at = excluded.updated_at`, key, text)
	if err != nil {
		return fmt.Errorf("failed to store advisory %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
