package models

import (
	"encoding/json"
	"time"
)

// MemberStatus is the lifecycle state of a membership.
type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberExpired  MemberStatus = "expired"
	MemberPending  MemberStatus = "pending"
)

// Member represents a gym member.
type Member struct {
	// ID is the store-assigned identifier (see package idgen).
	ID string `json:"id"`

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	// MembershipType is the plan name (e.g. "monthly", "yearly").
	MembershipType string `json:"membershipType"`

	StartDate time.Time `json:"startDate"`

	// EndDate is when the membership lapses. Older payloads call it
	// expiryDate; both decode into this field.
	EndDate time.Time `json:"endDate"`

	// Status moves from active to expired automatically once EndDate passes.
	Status MemberStatus `json:"status"`

	Trainer     string     `json:"trainer,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	TotalVisits int        `json:"totalVisits,omitempty"`
	LastVisit   *time.Time `json:"lastVisit,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with m.
func (m Member) Clone() Member {
	cp := m
	if m.LastVisit != nil {
		t := *m.LastVisit
		cp.LastVisit = &t
	}
	return cp
}

// memberFields has Member's layout without its JSON methods.
type memberFields Member

// MarshalJSON writes expiryDate next to endDate for readers of the old shape.
func (m Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		memberFields
		ExpiryDate time.Time `json:"expiryDate"`
	}{memberFields(m), m.EndDate})
}

// UnmarshalJSON accepts expiryDate when endDate is absent.
func (m *Member) UnmarshalJSON(data []byte) error {
	var w struct {
		memberFields
		ExpiryDate *time.Time `json:"expiryDate"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Member(w.memberFields)
	if m.EndDate.IsZero() && w.ExpiryDate != nil {
		m.EndDate = *w.ExpiryDate
	}
	return nil
}

// MemberPatch lists the updatable Member fields. Nil fields are left untouched.
type MemberPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	MembershipType *string
	StartDate      *time.Time
	EndDate        *time.Time
	Status         *MemberStatus
	Trainer        *string
	Notes          *string
	TotalVisits    *int
	LastVisit      *time.Time
}

// Apply copies the supplied fields onto m.
func (p MemberPatch) Apply(m *Member) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Email != nil {
		m.Email = *p.Email
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.MembershipType != nil {
		m.MembershipType = *p.MembershipType
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		m.EndDate = *p.EndDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Trainer != nil {
		m.Trainer = *p.Trainer
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.TotalVisits != nil {
		m.TotalVisits = *p.TotalVisits
	}
	if p.LastVisit != nil {
		t := *p.LastVisit
		m.LastVisit = &t
	}
}
