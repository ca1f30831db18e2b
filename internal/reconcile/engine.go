// Package reconcile pulls remote snapshots and merges them into the local
// store. Fetch failures never reach the caller: a type whose fetch fails,
// times out, or returns nothing is left exactly as it was.
package reconcile

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmynk/gymdesk/internal/metrics"
	"github.com/mmynk/gymdesk/internal/remote"
	"github.com/mmynk/gymdesk/internal/store"
)

const (
	defaultFetchTimeout = 5 * time.Second
	defaultMinInterval  = 10 * time.Second
	defaultParallelism  = 4
)

// Outcome labels for one entity type in a refresh.
const (
	OutcomeMerged = "merged"
	OutcomeEmpty  = "empty"
	OutcomeError  = "error"
)

// Target is the part of the store the engine writes to.
type Target interface {
	MergeRemote(entity store.Entity, records []json.RawMessage) (store.MergeResult, error)
	AutoExpireMembers() int
}

// TypeReport is what happened to one entity type.
type TypeReport struct {
	Entity  store.Entity
	Outcome string
	Merge   store.MergeResult
	Err     error
}

// Report summarizes one Refresh.
type Report struct {
	// Skipped is set when the call was coalesced with a recent refresh.
	Skipped  bool
	Types    []TypeReport
	Duration time.Duration
}

// Outcome returns the outcome recorded for entity, or "" if it was not refreshed.
func (r Report) Outcome(entity store.Entity) string {
	for _, t := range r.Types {
		if t.Entity == entity {
			return t.Outcome
		}
	}
	return ""
}

// Engine runs refreshes against one store.
type Engine struct {
	target      Target
	fetcher     remote.Fetcher
	entities    []store.Entity
	timeout     time.Duration
	parallelism int
	limiter     *rate.Limiter
	tracer      trace.Tracer
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithFetchTimeout bounds each per-type fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithMinInterval coalesces refreshes that arrive closer together than d.
// Zero disables coalescing.
func WithMinInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d <= 0 {
			e.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		e.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithEntities restricts the refreshed types (default store.SyncedEntities).
func WithEntities(entities ...store.Entity) Option {
	return func(e *Engine) { e.entities = entities }
}

// WithParallelism sets how many fetches run at once.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// New returns an Engine merging snapshots from fetcher into target.
func New(target Target, fetcher remote.Fetcher, opts ...Option) *Engine {
	e := &Engine{
		target:      target,
		fetcher:     fetcher,
		entities:    store.SyncedEntities,
		timeout:     defaultFetchTimeout,
		parallelism: defaultParallelism,
		limiter:     rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		tracer:      otel.Tracer("github.com/mmynk/gymdesk/reconcile"),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.parallelism < 1 {
		e.parallelism = 1
	}
	return e
}

// Refresh fetches every tracked type and merges each non-empty snapshot.
// Types are independent: one failing does not affect the others.
func (e *Engine) Refresh(ctx context.Context) Report {
	if !e.limiter.Allow() {
		e.logger.Debug("Refresh coalesced with a recent one")
		for _, entity := range e.entities {
			e.metrics.SyncFetch(string(entity), "skipped")
		}
		return Report{Skipped: true}
	}

	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "reconcile.refresh",
		trace.WithAttributes(attribute.Int("refresh.types", len(e.entities))),
	)
	defer span.End()

	reports := make([]TypeReport, len(e.entities))
	var mu sync.Mutex
	merged := 0

	g := new(errgroup.Group)
	g.SetLimit(e.parallelism)
	for i, entity := range e.entities {
		i, entity := i, entity // per-iteration copies; module targets go 1.21
		g.Go(func() error {
			reports[i] = e.refreshType(ctx, entity)
			if reports[i].Outcome == OutcomeMerged {
				mu.Lock()
				merged++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	e.metrics.SyncDuration(elapsed)
	span.SetAttributes(attribute.Int("refresh.merged", merged))
	e.logger.Info("Refresh finished", "merged", merged, "types", len(e.entities), "duration_ms", elapsed.Milliseconds())
	return Report{Types: reports, Duration: elapsed}
}

func (e *Engine) refreshType(ctx context.Context, entity store.Entity) TypeReport {
	ctx, span := e.tracer.Start(ctx, "reconcile.fetch",
		trace.WithAttributes(attribute.String("entity", string(entity))),
	)
	defer span.End()

	rep := TypeReport{Entity: entity}
	defer func() {
		e.metrics.SyncFetch(string(entity), rep.Outcome)
		span.SetAttributes(attribute.String("outcome", rep.Outcome))
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	records, err := e.fetcher.FetchSnapshot(fetchCtx, string(entity))
	if err != nil {
		e.logger.Warn("Remote fetch failed, keeping local data", "entity", entity, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		rep.Outcome, rep.Err = OutcomeError, err
		return rep
	}
	if len(records) == 0 {
		rep.Outcome = OutcomeEmpty
		return rep
	}

	res, err := e.target.MergeRemote(entity, records)
	if err != nil {
		e.logger.Warn("Merge failed, keeping local data", "entity", entity, "error", err)
		span.RecordError(err)
		rep.Outcome, rep.Err = OutcomeError, err
		return rep
	}
	span.SetAttributes(
		attribute.Int("merge.added", res.Added),
		attribute.Int("merge.updated", res.Updated),
		attribute.Int("merge.skipped", res.Skipped),
	)
	rep.Outcome, rep.Merge = OutcomeMerged, res
	return rep
}

// Run refreshes immediately and then every interval until ctx is done. Each
// cycle also expires lapsed memberships. It returns ctx.Err().
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		e.cycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Engine) cycle(ctx context.Context) {
	e.Refresh(ctx)
	e.target.AutoExpireMembers()
}
