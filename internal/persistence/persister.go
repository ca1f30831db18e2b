// Package persistence writes the store's persisted state to a storage.KV
// after every change and reads it back on startup.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/gymdesk/internal/metrics"
	"github.com/mmynk/gymdesk/internal/storage"
	"github.com/mmynk/gymdesk/internal/store"
)

const defaultTimeout = 5 * time.Second

// Persister saves store changes under one namespace.
type Persister struct {
	kv        storage.KV
	namespace string
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Collector

	mu      sync.Mutex
	written uint64
}

// Option configures a Persister.
type Option func(*Persister)

// WithNamespace overrides store.Namespace.
func WithNamespace(ns string) Option {
	return func(p *Persister) { p.namespace = ns }
}

// WithTimeout bounds each write.
func WithTimeout(d time.Duration) Option {
	return func(p *Persister) { p.timeout = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Persister) { p.logger = l }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(p *Persister) { p.metrics = c }
}

// New returns a Persister writing to kv.
func New(kv storage.KV, opts ...Option) *Persister {
	p := &Persister{
		kv:        kv,
		namespace: store.Namespace,
		timeout:   defaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Attach subscribes p to every future change of s.
func (p *Persister) Attach(s *store.Store) {
	s.Subscribe(p.Handle)
}

// Handle writes one change. A change older than the last one written is
// dropped, so a slow writer never overwrites newer state. Failures are
// logged and counted; the in-memory state is not rolled back.
func (p *Persister) Handle(c store.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c.Version <= p.written {
		p.logger.Debug("Skipping stale state write", "version", c.Version, "written", p.written)
		return
	}

	payload, err := json.Marshal(c.State)
	if err != nil {
		p.logger.Error("Failed to encode state", "version", c.Version, "error", err)
		p.metrics.PersistWrite(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.kv.Save(ctx, p.namespace, payload); err != nil {
		p.logger.Error("Failed to persist state", "namespace", p.namespace, "version", c.Version, "error", err)
		p.metrics.PersistWrite(err)
		return
	}
	p.written = c.Version
	p.metrics.PersistWrite(nil)
}

// Written returns the version of the last successful write.
func (p *Persister) Written() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// timestamped is implemented by backends that record when a namespace was
// last written (storage/sqlite).
type timestamped interface {
	UpdatedAt(ctx context.Context, namespace string) (time.Time, bool, error)
}

// Hydrate loads the saved state into s and then runs s.InitializeEmpty.
// A missing snapshot leaves s empty. Read and decode failures are logged and
// also leave s as it was; Hydrate reports whether a snapshot was applied.
func (p *Persister) Hydrate(ctx context.Context, s *store.Store) bool {
	defer s.InitializeEmpty()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload, err := p.kv.Load(ctx, p.namespace)
	if err != nil {
		p.logger.Error("Failed to load saved state", "namespace", p.namespace, "error", err)
		return false
	}
	if payload == nil {
		p.logger.Info("No saved state, starting empty", "namespace", p.namespace)
		return false
	}

	st, err := s.DecodeState(payload)
	if err != nil {
		p.logger.Error("Failed to decode saved state", "namespace", p.namespace, "error", err)
		return false
	}
	s.Replace(st)
	attrs := []any{
		"namespace", p.namespace,
		"members", len(st.Members),
		"invoices", len(st.Invoices),
		"activities", len(st.Activities),
	}
	if sa, ok := p.kv.(timestamped); ok {
		if at, found, err := sa.UpdatedAt(ctx, p.namespace); err == nil && found {
			attrs = append(attrs, "saved_at", at.Format(time.RFC3339))
		}
	}
	p.logger.Info("Restored saved state", attrs...)
	return true
}

// Backup writes a full export of s to kv under key.
func Backup(ctx context.Context, s *store.Store, kv storage.KV, key string) error {
	data, err := s.ExportData()
	if err != nil {
		return err
	}
	if err := kv.Save(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", key, err)
	}
	return nil
}

// Restore imports the backup saved under key into s.
func Restore(ctx context.Context, s *store.Store, kv storage.KV, key string) error {
	data, err := kv.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read backup %s: %w", key, err)
	}
	if data == nil {
		return fmt.Errorf("failed to read backup %s: %w", key, store.ErrNotFound)
	}
	return s.ImportData(data)
}
