// Package memory provides an in-process storage.KV, used when durability is
// not wanted (demos, tests).
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/gymdesk/internal/storage"
)

var _ storage.KV = (*Store)(nil)

// Store keeps payloads in a map. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Load returns a copy of the payload under namespace.
func (s *Store) Load(_ context.Context, namespace string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data[namespace]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), p...), nil
}

// Save stores a copy of payload under namespace.
func (s *Store) Save(_ context.Context, namespace string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[namespace] = append([]byte(nil), payload...)
	return nil
}

func (s *Store) Close() error { return nil }
