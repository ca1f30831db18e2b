// Package sqlite provides a SQLite-backed implementation of the storage.KV interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/gymdesk/internal/storage"
)

// Ensure SQLiteStore implements storage.KV
var _ storage.KV = (*SQLiteStore)(nil)

// SQLiteStore implements storage.KV using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Writers queue behind each other instead of failing with SQLITE_BUSY
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the payload stored under namespace, or nil if there is none.
func (s *SQLiteStore) Load(ctx context.Context, namespace string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM state WHERE namespace = ?",
		namespace,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", namespace, err)
	}
	return payload, nil
}

// Save upserts the payload for namespace.
func (s *SQLiteStore) Save(ctx context.Context, namespace string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (namespace, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		namespace, payload, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", namespace, err)
	}
	return nil
}

// UpdatedAt reports when namespace was last saved. ok is false if it never was.
func (s *SQLiteStore) UpdatedAt(ctx context.Context, namespace string) (t time.Time, ok bool, err error) {
	var unix int64
	err = s.db.QueryRowContext(ctx,
		"SELECT updated_at FROM state WHERE namespace = ?",
		namespace,
	).Scan(&unix)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read state timestamp: %w", err)
	}
	return time.Unix(unix, 0), true, nil
}
