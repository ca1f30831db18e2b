// Package storage provides abstractions for durable state storage.
package storage

import "context"

// KV stores opaque payloads under a namespace key. The store's persisted
// state is one such payload; backups are others.
// Implementations exist for SQLite, PostgreSQL, S3 and memory, so the
// persistence layer can swap backends without changing.
type KV interface {
	// Load returns the payload saved under namespace.
	// It returns nil and no error if nothing has been saved yet.
	Load(ctx context.Context, namespace string) ([]byte, error)

	// Save replaces the payload under namespace.
	Save(ctx context.Context, namespace string, payload []byte) error

	// Close releases any resources held by the store.
	Close() error
}
