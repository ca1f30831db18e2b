// Package store is the local-first state of the front desk: one ordered
// collection per record type, the append-only activity log, pricing and
// terms, and the invoice counter.
//
// All mutations go through Store methods. After each mutation the store
// emits a Change carrying a version number and the persisted subset of its
// state; the persistence layer subscribes to these. Getters return copies,
// so callers cannot modify stored records in place.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/gymdesk/internal/calculator"
	"github.com/mmynk/gymdesk/internal/idgen"
	"github.com/mmynk/gymdesk/internal/metrics"
	"github.com/mmynk/gymdesk/internal/models"
	"github.com/mmynk/gymdesk/internal/sequence"
)

// Entity names a record collection. The names double as remote endpoint
// paths and metric labels.
type Entity string

const (
	EntityMembers    Entity = "members"
	EntityInvoices   Entity = "invoices"
	EntityFollowUps  Entity = "followups"
	EntityActivities Entity = "activities"
	EntityCheckIns   Entity = "checkins"
	EntityVisitors   Entity = "visitors"
	EntityProteins   Entity = "proteins"
	EntityTrainers   Entity = "trainers"
	EntitySettings   Entity = "settings"
)

// SyncedEntities are the collections pulled from the backend on refresh.
// The activity log is local audit data and is not reconciled.
var SyncedEntities = []Entity{
	EntityMembers,
	EntityInvoices,
	EntityFollowUps,
	EntityCheckIns,
	EntityVisitors,
	EntityProteins,
	EntityTrainers,
}

// UserSource yields the id of the signed-in user, used to stamp follow-ups.
type UserSource interface {
	UserID() string
}

// StaticUser is a UserSource that always returns the same id.
type StaticUser string

// UserID returns u.
func (u StaticUser) UserID() string { return string(u) }

// Change is emitted after every committed mutation.
type Change struct {
	// Version increases by one per change.
	Version uint64
	// State is the persisted subset as of this change.
	State State
}

// Listener receives changes. Listeners run on the mutating goroutine after
// the store lock is released and must not block for long.
type Listener func(Change)

// Store holds all records. The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	clock   Clock
	newID   func() string
	user    UserSource
	logger  *slog.Logger
	metrics *metrics.Collector

	defaultPricing models.PricingSettings
	defaultTerms   string

	members    *collection[models.Member]
	invoices   *collection[models.Invoice]
	followUps  *collection[models.FollowUp]
	checkIns   *collection[models.CheckIn]
	visitors   *collection[models.Visitor]
	proteins   *collection[models.Protein]
	trainers   *collection[models.Trainer]
	activities []models.Activity
	pricing    models.PricingSettings
	terms      string
	seq        *sequence.Sequencer

	version   uint64
	listeners []Listener
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces idgen.New for non-invoice records.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithUser sets the source of the signed-in user id.
func WithUser(u UserSource) Option {
	return func(s *Store) { s.user = u }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics records mutations on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Store) { s.metrics = c }
}

// WithDefaults sets the pricing and terms used for a fresh or cleared store.
func WithDefaults(pricing models.PricingSettings, terms string) Option {
	return func(s *Store) {
		s.defaultPricing = pricing
		s.defaultTerms = terms
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:          SystemClock{},
		newID:          idgen.New,
		user:           StaticUser(""),
		logger:         slog.Default(),
		defaultPricing: models.DefaultPricing(),
		defaultTerms:   models.DefaultTerms,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	s.seq = sequence.New(0)
	return s
}

// resetLocked empties every collection and restores default settings.
// The invoice counter is left alone.
func (s *Store) resetLocked() {
	s.members = newCollection[models.Member]()
	s.invoices = newCollection[models.Invoice]()
	s.followUps = newCollection[models.FollowUp]()
	s.checkIns = newCollection[models.CheckIn]()
	s.visitors = newCollection[models.Visitor]()
	s.proteins = newCollection[models.Protein]()
	s.trainers = newCollection[models.Trainer]()
	s.activities = nil
	s.pricing = s.defaultPricing
	s.terms = s.defaultTerms
}

// Subscribe registers l for all future changes.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Version returns the number of changes committed so far.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// mutate runs fn under the store lock. When fn reports a change, the change
// is committed and delivered to listeners before mutate returns.
func (s *Store) mutate(entity Entity, action string, fn func(now time.Time) bool) {
	s.mu.Lock()
	if !fn(s.clock.Now()) {
		s.mu.Unlock()
		return
	}
	s.version++
	change := Change{Version: s.version, State: s.stateLocked()}
	listeners := s.listeners
	s.mu.Unlock()

	s.metrics.Mutation(string(entity), action)
	for _, l := range listeners {
		l(change)
	}
}

// logActivityLocked appends one audit entry. Times never go backward, even
// if the clock does.
func (s *Store) logActivityLocked(now time.Time, typ models.ActivityType, action, name, details, memberID string) {
	if n := len(s.activities); n > 0 && now.Before(s.activities[n-1].Time) {
		now = s.activities[n-1].Time
	}
	s.activities = append(s.activities, models.Activity{
		ID:       s.newID(),
		Type:     typ,
		Action:   action,
		Name:     name,
		Time:     now,
		Details:  details,
		MemberID: memberID,
	})
}

// AddActivity appends a collaborator-supplied entry (for example a trainer
// assignment note). ID and Time are assigned by the store.
func (s *Store) AddActivity(a models.Activity) models.Activity {
	var out models.Activity
	s.mutate(EntityActivities, "add", func(now time.Time) bool {
		s.logActivityLocked(now, a.Type, a.Action, a.Name, a.Details, a.MemberID)
		out = s.activities[len(s.activities)-1]
		return true
	})
	return out
}

// Activities returns the log in chronological order.
func (s *Store) Activities() []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// RecentActivities returns up to n entries, newest first.
func (s *Store) RecentActivities(n int) []models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.activities) {
		n = len(s.activities)
	}
	out := make([]models.Activity, 0, n)
	for i := len(s.activities) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.activities[i])
	}
	return out
}

// Stats summarizes the store for the dashboard.
func (s *Store) Stats() calculator.Dashboard {
	s.mu.Lock()
	in := calculator.DashboardInput{
		Members:   s.members.list(models.Member.Clone),
		Invoices:  s.invoices.list(models.Invoice.Clone),
		Proteins:  s.proteins.list(models.Protein.Clone),
		CheckIns:  s.checkIns.list(identity[models.CheckIn]),
		FollowUps: s.followUps.list(models.FollowUp.Clone),
	}
	now := s.clock.Now()
	s.mu.Unlock()
	return calculator.Summarize(in, now)
}

func identity[T any](v T) T { return v }
