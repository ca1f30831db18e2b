// Package postgres provides a PostgreSQL-backed storage.KV using the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/mmynk/gymdesk/internal/storage"
)

var _ storage.KV = (*Store)(nil)

const driverName = "pgx"

// Store keeps one JSONB row per namespace.
type Store struct {
	db *sql.DB
}

// New connects to dsn, verifies the connection and ensures the state table
// exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if err := ensureStateTable(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func ensureStateTable(ctx context.Context, db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS state (
		namespace TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure state table: %w", err)
	}
	return nil
}

// Load returns the payload under namespace, or nil if there is none.
func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE namespace = $1`, namespace,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", namespace, err)
	}
	return payload, nil
}

// Save upserts the payload for namespace. payload must be valid JSON.
func (s *Store) Save(ctx context.Context, namespace string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (namespace, payload, updated_at) VALUES ($1, $2::jsonb, $3)
		 ON CONFLICT (namespace) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		namespace, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", namespace, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
