package models

import (
	"encoding/json"
	"time"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoicePartial InvoiceStatus = "partial"
)

// Invoice represents a bill issued to a member.
type Invoice struct {
	// ID is the human-readable invoice number, MP followed by at least 4 digits.
	ID string `json:"id"`

	MemberID string `json:"memberId"`

	// MemberName is a snapshot taken when the invoice was written.
	// It is not refreshed when the member is renamed.
	MemberName string `json:"memberName"`

	Status  InvoiceStatus `json:"status"`
	DueDate time.Time     `json:"dueDate"`

	// Items are the ordered line items.
	Items []InvoiceItem `json:"items"`

	Subtotal float64 `json:"subtotal"`

	// Total is the amount billed. Older payloads call it amount.
	Total float64 `json:"total"`

	PaidAmount float64 `json:"paidAmount"`

	// AmountRemaining is derived: max(0, Total - PaidAmount).
	AmountRemaining float64 `json:"amountRemaining"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InvoiceItem is a single line on an invoice.
type InvoiceItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Clone returns a copy that shares no mutable state with inv.
func (inv Invoice) Clone() Invoice {
	cp := inv
	if inv.Items != nil {
		cp.Items = make([]InvoiceItem, len(inv.Items))
		copy(cp.Items, inv.Items)
	}
	return cp
}

type invoiceFields Invoice

// MarshalJSON writes amount as a copy of total for readers of the old shape.
func (inv Invoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		invoiceFields
		Amount float64 `json:"amount"`
	}{invoiceFields(inv), inv.Total})
}

// UnmarshalJSON accepts amount when total is absent.
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	var w struct {
		invoiceFields
		Total  *float64 `json:"total"`
		Amount *float64 `json:"amount"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*inv = Invoice(w.invoiceFields)
	switch {
	case w.Total != nil:
		inv.Total = *w.Total
	case w.Amount != nil:
		inv.Total = *w.Amount
	}
	return nil
}

// InvoicePatch lists the updatable Invoice fields. A nil Items leaves the
// lines untouched; an empty non-nil slice clears them.
type InvoicePatch struct {
	MemberID   *string
	MemberName *string
	Status     *InvoiceStatus
	DueDate    *time.Time
	Items      []InvoiceItem
	Subtotal   *float64
	Total      *float64
	PaidAmount *float64
	Notes      *string
}

// Apply copies the supplied fields onto inv. Derived fields are the
// caller's job.
func (p InvoicePatch) Apply(inv *Invoice) {
	if p.MemberID != nil {
		inv.MemberID = *p.MemberID
	}
	if p.MemberName != nil {
		inv.MemberName = *p.MemberName
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Items != nil {
		inv.Items = make([]InvoiceItem, len(p.Items))
		copy(inv.Items, p.Items)
	}
	if p.Subtotal != nil {
		inv.Subtotal = *p.Subtotal
	}
	if p.Total != nil {
		inv.Total = *p.Total
	}
	if p.PaidAmount != nil {
		inv.PaidAmount = *p.PaidAmount
	}
	if p.Notes != nil {
		inv.Notes = *p.Notes
	}
}
