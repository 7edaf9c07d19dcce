// Package store persists the one thing worth keeping across process
// restarts for this engine: a record of every Advisory Analyzer call,
// for operators to audit latency, cost, and failure rate. Session state
// itself is never persisted — cross-session learner history is out of
// scope for a placement test (spec §1 Non-goals).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS advisor_calls (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence      INTEGER NOT NULL,
	timestamp     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	session_id    TEXT NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL,
	output_tokens INTEGER NOT NULL,
	latency_ms    INTEGER NOT NULL,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_advisor_calls_timestamp ON advisor_calls(timestamp);
`

// Store holds the raw *sql.DB connection to the advisor-call log.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn,
// applying recommended pragmas and creating the log table if absent.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AdvisorCallRepo returns an AdvisorCallRepo backed by this store.
func (s *Store) AdvisorCallRepo() AdvisorCallRepo {
	return &advisorCallRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PLACEMENT_DB environment variable
// 2. $XDG_DATA_HOME/placement/placement.db
// 3. ~/.local/share/placement/placement.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PLACEMENT_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "placement", "placement.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// EnsureDir is the exported form of ensureDir, for callers (the --db
// flag path in cmd) that resolve their own database path rather than
// going through DefaultDBPath.
func EnsureDir(path string) error {
	return ensureDir(path)
}
