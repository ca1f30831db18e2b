package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmynk/gymdesk/internal/calculator"
	"github.com/mmynk/gymdesk/internal/models"
)

// Namespace is the storage key the persisted state lives under.
const Namespace = "gym-management-storage"

// State is the persisted subset of the store. Trainers and visitors are
// session data and are not part of it.
type State struct {
	Members             []models.Member        `json:"members"`
	Invoices            []models.Invoice       `json:"invoices"`
	FollowUps           []models.FollowUp      `json:"followUps"`
	Activities          []models.Activity      `json:"activities"`
	CheckIns            []models.CheckIn       `json:"checkIns"`
	Proteins            []models.Protein       `json:"proteins"`
	Pricing             models.PricingSettings `json:"pricing"`
	TermsAndConditions  string                 `json:"termsAndConditions"`
	LastInvoiceSequence int                    `json:"lastInvoiceSequence"`
}

// ExportDocument is the JSON shape written by ExportData.
type ExportDocument struct {
	State
	ExportedAt time.Time `json:"exportedAt"`
}

func (s *Store) stateLocked() State {
	acts := make([]models.Activity, len(s.activities))
	copy(acts, s.activities)
	return State{
		Members:             s.members.list(models.Member.Clone),
		Invoices:            s.invoices.list(models.Invoice.Clone),
		FollowUps:           s.followUps.list(models.FollowUp.Clone),
		Activities:          acts,
		CheckIns:            s.checkIns.list(identity[models.CheckIn]),
		Proteins:            s.proteins.list(models.Protein.Clone),
		Pricing:             s.pricing,
		TermsAndConditions:  s.terms,
		LastInvoiceSequence: s.seq.Last(),
	}
}

// Snapshot returns the persisted subset as it is now.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// DecodeState reads a persisted snapshot. Fields that are missing or fail to
// decode fall back to empty collections and the store's default pricing and
// terms; only a payload that is not a JSON object is an error.
func (s *Store) DecodeState(data []byte) (State, error) {
	return s.decodeState(data, false)
}

func (s *Store) decodeState(data []byte, strict bool) (State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return State{}, fmt.Errorf("failed to decode state: %w", err)
	}
	if fields == nil {
		return State{}, fmt.Errorf("failed to decode state: payload is null")
	}

	st := State{Pricing: s.defaultPricing, TermsAndConditions: s.defaultTerms}
	targets := map[string]any{
		"members":             &st.Members,
		"invoices":            &st.Invoices,
		"followUps":           &st.FollowUps,
		"activities":          &st.Activities,
		"checkIns":            &st.CheckIns,
		"proteins":            &st.Proteins,
		"pricing":             &st.Pricing,
		"termsAndConditions":  &st.TermsAndConditions,
		"lastInvoiceSequence": &st.LastInvoiceSequence,
	}
	for key, dst := range targets {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			if strict {
				return State{}, fmt.Errorf("failed to decode %s: %w", key, err)
			}
			s.logger.Warn("Dropping unreadable state field", "field", key, "error", err)
		}
	}
	return st, nil
}

// Replace swaps the persisted subset wholesale for st. Visitors and trainers
// are cleared. Derived fields are recomputed and the invoice counter becomes
// the larger of st's counter and the highest invoice number in st.
func (s *Store) Replace(st State) {
	s.mutate("all", "replace", func(time.Time) bool {
		s.replaceLocked(st)
		return true
	})
}

func (s *Store) replaceLocked(st State) {
	invoices := make([]models.Invoice, 0, len(st.Invoices))
	for _, inv := range st.Invoices {
		inv = inv.Clone()
		calculator.ApplyInvoice(&inv)
		invoices = append(invoices, inv)
	}
	proteins := make([]models.Protein, 0, len(st.Proteins))
	for _, p := range st.Proteins {
		p = p.Clone()
		calculator.ApplyProtein(&p)
		proteins = append(proteins, p)
	}
	followUps := make([]models.FollowUp, 0, len(st.FollowUps))
	for _, f := range st.FollowUps {
		f = f.Clone()
		f.Normalize()
		followUps = append(followUps, f)
	}

	s.members = collectionOf(cloneAll(st.Members, models.Member.Clone), func(m models.Member) string { return m.ID })
	s.invoices = collectionOf(invoices, func(inv models.Invoice) string { return inv.ID })
	s.followUps = collectionOf(followUps, func(f models.FollowUp) string { return f.ID })
	s.checkIns = collectionOf(cloneAll(st.CheckIns, identity[models.CheckIn]), func(c models.CheckIn) string { return c.ID })
	s.proteins = collectionOf(proteins, func(p models.Protein) string { return p.ID })
	s.visitors = newCollection[models.Visitor]()
	s.trainers = newCollection[models.Trainer]()
	s.activities = cloneAll(st.Activities, identity[models.Activity])
	s.pricing = st.Pricing
	s.terms = st.TermsAndConditions

	s.seq.Restore(st.LastInvoiceSequence)
	for _, inv := range invoices {
		s.seq.Observe(inv.ID)
	}
}

// InitializeEmpty fills in default pricing and terms when the store holds no
// records at all. It never touches a store with data in it and reports
// whether it changed anything.
func (s *Store) InitializeEmpty() bool {
	var changed bool
	s.mutate(EntitySettings, "initialize", func(time.Time) bool {
		if s.members.len()+s.invoices.len()+s.followUps.len()+s.checkIns.len()+s.proteins.len()+len(s.activities) > 0 {
			return false
		}
		if s.pricing == (models.PricingSettings{}) {
			s.pricing = s.defaultPricing
			changed = true
		}
		if s.terms == "" {
			s.terms = s.defaultTerms
			changed = true
		}
		return changed
	})
	return changed
}

// ExportData renders the persisted subset as a JSON document that
// ImportData accepts.
func (s *Store) ExportData() ([]byte, error) {
	s.mu.Lock()
	doc := ExportDocument{State: s.stateLocked(), ExportedAt: s.clock.Now()}
	s.mu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ImportData replaces the persisted subset with the contents of an export
// document. The payload is decoded completely before anything is replaced;
// if decoding fails the store is left as it was and the error wraps
// ErrMalformedImport.
func (s *Store) ImportData(data []byte) error {
	st, err := s.decodeState(data, true)
	if err != nil {
		s.logger.Error("Failed to import data", "error", err)
		return fmt.Errorf("%w: %w", ErrMalformedImport, err)
	}
	s.Replace(st)
	s.logger.Info("Imported data", "members", len(st.Members), "invoices", len(st.Invoices))
	return nil
}

// ClearAllData empties every collection and restores default pricing and
// terms. The invoice counter survives so numbers are never issued twice.
func (s *Store) ClearAllData() {
	s.mutate("all", "clear", func(time.Time) bool {
		s.resetLocked()
		return true
	})
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, clone(v))
	}
	return out
}
