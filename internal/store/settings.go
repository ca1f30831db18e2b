package store

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// UpdatePricing applies p to the membership pricing.
func (s *Store) UpdatePricing(p models.PricingPatch) {
	s.mutate(EntitySettings, "pricing", func(time.Time) bool {
		p.Apply(&s.pricing)
		return true
	})
}

// SetTerms replaces the terms and conditions printed on invoices.
func (s *Store) SetTerms(terms string) {
	s.mutate(EntitySettings, "terms", func(time.Time) bool {
		if s.terms == terms {
			return false
		}
		s.terms = terms
		return true
	})
}

func (s *Store) Pricing() models.PricingSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pricing
}

func (s *Store) Terms() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms
}
