package models

import (
	"encoding/json"
	"time"
)

// FollowUpCategory classifies a follow-up task.
type FollowUpCategory string

const (
	CategoryRenewal FollowUpCategory = "renewal"
	CategoryPayment FollowUpCategory = "payment"
	CategoryVisitor FollowUpCategory = "visitor"
	CategoryGeneral FollowUpCategory = "general"
)

// FollowUpStatus is where a follow-up stands.
type FollowUpStatus string

const (
	FollowUpPending       FollowUpStatus = "pending"
	FollowUpInProgress    FollowUpStatus = "in_progress"
	FollowUpContacted     FollowUpStatus = "contacted"
	FollowUpInterested    FollowUpStatus = "interested"
	FollowUpNotInterested FollowUpStatus = "not_interested"
	FollowUpConverted     FollowUpStatus = "converted"
	FollowUpCompleted     FollowUpStatus = "completed"
	FollowUpCancelled     FollowUpStatus = "cancelled"
	FollowUpSnoozed       FollowUpStatus = "snoozed"
)

// Priority ranks follow-ups.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ContactInfo is who to reach for a follow-up.
type ContactInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// VisitorLead holds the fields that only make sense for visitor follow-ups.
type VisitorLead struct {
	Source                 string `json:"source,omitempty"`
	PreferredContactMethod string `json:"preferredContactMethod,omitempty"`
	BestTimeToContact      string `json:"bestTimeToContact,omitempty"`
	ConversionStatus       string `json:"conversionStatus,omitempty"`
}

// FollowUp represents a task assigned to staff.
type FollowUp struct {
	ID string `json:"id"`

	// Category is also read and written as type.
	Category FollowUpCategory `json:"category"`
	Status   FollowUpStatus   `json:"status"`

	// MemberID is empty for leads that are not members yet.
	MemberID string `json:"memberId,omitempty"`

	Contact  ContactInfo `json:"contactInfo"`
	DueDate  time.Time   `json:"dueDate"`
	Notes    string      `json:"notes,omitempty"`
	Priority Priority    `json:"priority"`

	// AssignedTo and CreatedBy are user ids from the auth layer.
	AssignedTo string `json:"assignedTo,omitempty"`
	CreatedBy  string `json:"createdBy,omitempty"`

	// Tags is a set; order of first appearance is kept.
	Tags []string `json:"tags"`

	// Visitor is only set when Category is CategoryVisitor. Its fields sit
	// at the top level of the JSON record.
	Visitor *VisitorLead `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with f.
func (f FollowUp) Clone() FollowUp {
	cp := f
	if f.Tags != nil {
		cp.Tags = make([]string, len(f.Tags))
		copy(cp.Tags, f.Tags)
	}
	if f.Visitor != nil {
		v := *f.Visitor
		cp.Visitor = &v
	}
	return cp
}

type followUpFields FollowUp

// MarshalJSON flattens the visitor fields into the record and writes type
// next to category.
func (f FollowUp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		followUpFields
		Type FollowUpCategory `json:"type"`
		*VisitorLead
	}{followUpFields(f), f.Category, f.Visitor})
}

// UnmarshalJSON reads top-level visitor fields and accepts type when
// category is absent. A nested visitor object, as older snapshots wrote it,
// is used only when no top-level visitor field is present.
func (f *FollowUp) UnmarshalJSON(data []byte) error {
	var w struct {
		followUpFields
		Category *FollowUpCategory `json:"category"`
		Type     *FollowUpCategory `json:"type"`
		VisitorLead
		Nested *VisitorLead `json:"visitor"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*f = FollowUp(w.followUpFields)
	switch {
	case w.Category != nil:
		f.Category = *w.Category
	case w.Type != nil:
		f.Category = *w.Type
	}
	switch {
	case w.VisitorLead != (VisitorLead{}):
		v := w.VisitorLead
		f.Visitor = &v
	case w.Nested != nil:
		v := *w.Nested
		f.Visitor = &v
	}
	return nil
}

// Normalize enforces the set semantics of Tags and drops visitor fields
// from non-visitor categories.
func (f *FollowUp) Normalize() {
	f.Tags = UniqueTags(f.Tags)
	if f.Category != CategoryVisitor {
		f.Visitor = nil
	}
}

// UniqueTags removes empty and duplicate tags, keeping first occurrences.
func UniqueTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// FollowUpPatch lists the updatable FollowUp fields.
type FollowUpPatch struct {
	Category   *FollowUpCategory
	Status     *FollowUpStatus
	MemberID   *string
	Contact    *ContactInfo
	DueDate    *time.Time
	Notes      *string
	Priority   *Priority
	AssignedTo *string
	Tags       []string
	Visitor    *VisitorLead
}

// Apply copies the supplied fields onto f.
func (p FollowUpPatch) Apply(f *FollowUp) {
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.MemberID != nil {
		f.MemberID = *p.MemberID
	}
	if p.Contact != nil {
		f.Contact = *p.Contact
	}
	if p.DueDate != nil {
		f.DueDate = *p.DueDate
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
	if p.Priority != nil {
		f.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		f.AssignedTo = *p.AssignedTo
	}
	if p.Tags != nil {
		f.Tags = make([]string, len(p.Tags))
		copy(f.Tags, p.Tags)
	}
	if p.Visitor != nil {
		v := *p.Visitor
		f.Visitor = &v
	}
}
