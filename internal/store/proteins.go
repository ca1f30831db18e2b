package store

import (
	"fmt"
	"time"

	"github.com/mmynk/gymdesk/internal/calculator"
	"github.com/mmynk/gymdesk/internal/models"
)

// AddProtein adds a product to the supplement inventory.
func (s *Store) AddProtein(p models.Protein) models.Protein {
	s.mutate(EntityProteins, "add", func(now time.Time) bool {
		p = p.Clone()
		p.ID = s.newID()
		p.CreatedAt, p.UpdatedAt = now, now
		calculator.ApplyProtein(&p)
		s.proteins.set(p.ID, p)
		s.logActivityLocked(now, models.ActivityProtein, "Product added", p.Name,
			fmt.Sprintf("%d units in stock", p.QuantityInStock), "")
		return true
	})
	return p.Clone()
}

// UpdateProtein applies patch to the product with id and recomputes its
// margin and profit. Missing ids are ignored.
func (s *Store) UpdateProtein(id string, patch models.ProteinPatch) {
	s.mutate(EntityProteins, "update", func(now time.Time) bool {
		cur, ok := s.proteins.get(id)
		if !ok {
			return false
		}
		p := cur.Clone()
		patch.Apply(&p)
		p.UpdatedAt = now
		calculator.ApplyProtein(&p)
		s.proteins.set(id, p)
		s.logActivityLocked(now, models.ActivityProtein, "Product updated", p.Name, "Product details updated", "")
		return true
	})
}

// DeleteProtein removes the product with id. Missing ids are ignored.
func (s *Store) DeleteProtein(id string) {
	s.mutate(EntityProteins, "delete", func(now time.Time) bool {
		p, ok := s.proteins.get(id)
		if !ok {
			return false
		}
		s.proteins.remove(id)
		s.logActivityLocked(now, models.ActivityProtein, "Product deleted", p.Name, "Product removed", "")
		return true
	})
}

// RecordProteinSale sells units of the product with id. The stock check and
// the decrement happen under one lock; on error nothing changes.
//
// The activity entry reports gross revenue (selling price times units), not
// profit.
func (s *Store) RecordProteinSale(id string, units int) error {
	if units <= 0 {
		return fmt.Errorf("failed to record sale of %d units: %w", units, ErrInvalidQuantity)
	}
	var saleErr error
	s.mutate(EntityProteins, "sale", func(now time.Time) bool {
		cur, ok := s.proteins.get(id)
		if !ok {
			saleErr = fmt.Errorf("failed to record sale for product %s: %w", id, ErrNotFound)
			return false
		}
		if units > cur.QuantityInStock {
			saleErr = fmt.Errorf("failed to sell %d units of %s, %d in stock: %w",
				units, cur.Name, cur.QuantityInStock, ErrInsufficientStock)
			return false
		}
		p := cur.Clone()
		p.QuantityInStock -= units
		p.UnitsSold += units
		p.UpdatedAt = now
		calculator.ApplyProtein(&p)
		s.proteins.set(id, p)
		s.logActivityLocked(now, models.ActivityProtein, "Product sold", p.Name,
			fmt.Sprintf("Sold %d units for %.2f", units, p.SellingPrice*float64(units)), "")
		return true
	})
	return saleErr
}

// Protein returns the product with id.
func (s *Store) Protein(id string) (models.Protein, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proteins.get(id)
	return p.Clone(), ok
}

// Proteins returns the inventory in insertion order.
func (s *Store) Proteins() []models.Protein {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proteins.list(models.Protein.Clone)
}
