package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/gymdesk/internal/calculator"
	"github.com/mmynk/gymdesk/internal/models"
)

// AddInvoice stores a new invoice. When inv.ID is a valid invoice number it
// is kept (unless another invoice already has it); otherwise the next number
// is issued. PaidAmount defaults to zero, a zero Subtotal is filled in from
// the line items, and AmountRemaining is derived.
func (s *Store) AddInvoice(inv models.Invoice) models.Invoice {
	s.mutate(EntityInvoices, "add", func(now time.Time) bool {
		inv = inv.Clone()
		id := s.seq.Next(inv.ID)
		for s.invoices.has(id) {
			id = s.seq.Generate()
		}
		inv.ID = id
		inv.CreatedAt, inv.UpdatedAt = now, now
		if inv.Status == "" {
			inv.Status = models.InvoicePending
		}
		assignItemIDs(inv.Items)
		if inv.Subtotal == 0 {
			inv.Subtotal = calculator.ItemsTotal(inv.Items)
		}
		calculator.ApplyInvoice(&inv)
		s.invoices.set(inv.ID, inv)
		s.logActivityLocked(now, models.ActivityInvoice, "Invoice created", inv.MemberName,
			fmt.Sprintf("Invoice %s for %.2f", inv.ID, inv.Total), inv.MemberID)
		return true
	})
	return inv.Clone()
}

// UpdateInvoice applies p to the invoice with id and recomputes its
// remaining balance. Missing ids are ignored.
func (s *Store) UpdateInvoice(id string, p models.InvoicePatch) {
	s.mutate(EntityInvoices, "update", func(now time.Time) bool {
		cur, ok := s.invoices.get(id)
		if !ok {
			return false
		}
		inv := cur.Clone()
		p.Apply(&inv)
		assignItemIDs(inv.Items)
		inv.UpdatedAt = now
		calculator.ApplyInvoice(&inv)
		s.invoices.set(id, inv)
		s.logActivityLocked(now, models.ActivityInvoice, "Invoice updated", inv.MemberName,
			fmt.Sprintf("Invoice %s updated, %.2f remaining", id, inv.AmountRemaining), inv.MemberID)
		return true
	})
}

// DeleteInvoice removes the invoice with id. Missing ids are ignored.
func (s *Store) DeleteInvoice(id string) {
	s.mutate(EntityInvoices, "delete", func(now time.Time) bool {
		inv, ok := s.invoices.get(id)
		if !ok {
			return false
		}
		s.invoices.remove(id)
		s.logActivityLocked(now, models.ActivityInvoice, "Invoice deleted", inv.MemberName,
			fmt.Sprintf("Invoice %s deleted", id), inv.MemberID)
		return true
	})
}

// Invoice returns the invoice with id.
func (s *Store) Invoice(id string) (models.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices.get(id)
	return inv.Clone(), ok
}

// Invoices returns all invoices in insertion order.
func (s *Store) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices.list(models.Invoice.Clone)
}

// InvoicesForMember returns the invoices billed to memberID.
func (s *Store) InvoicesForMember(memberID string) []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Invoice
	for _, id := range s.invoices.order {
		if inv := s.invoices.items[id]; inv.MemberID == memberID {
			out = append(out, inv.Clone())
		}
	}
	return out
}

// GenerateInvoiceNumber reserves the next invoice number without creating
// an invoice, for callers that show the number before the items are known.
func (s *Store) GenerateInvoiceNumber() string {
	var id string
	s.mutate(EntityInvoices, "reserve", func(time.Time) bool {
		id = s.seq.Generate()
		return true
	})
	return id
}

// LastInvoiceSequence returns the invoice counter.
func (s *Store) LastInvoiceSequence() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Last()
}

func assignItemIDs(items []models.InvoiceItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
}
