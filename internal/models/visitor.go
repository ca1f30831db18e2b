package models

import "time"

// VisitorStatus tracks whether a visitor is still on site.
type VisitorStatus string

const (
	VisitorCheckedIn  VisitorStatus = "checked-in"
	VisitorCheckedOut VisitorStatus = "checked-out"
)

// Visitor is a walk-in guest. Visitors are synced from the backend but not
// kept in local storage.
type Visitor struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email,omitempty"`
	Purpose      string        `json:"purpose"`
	CheckInTime  time.Time     `json:"checkInTime"`
	CheckOutTime *time.Time    `json:"checkOutTime,omitempty"`
	Status       VisitorStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with v.
func (v Visitor) Clone() Visitor {
	cp := v
	if v.CheckOutTime != nil {
		t := *v.CheckOutTime
		cp.CheckOutTime = &t
	}
	return cp
}

// VisitorPatch lists the updatable Visitor fields.
type VisitorPatch struct {
	Name         *string
	Phone        *string
	Email        *string
	Purpose      *string
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	Status       *VisitorStatus
}

// Apply copies the supplied fields onto v.
func (p VisitorPatch) Apply(v *Visitor) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.Phone != nil {
		v.Phone = *p.Phone
	}
	if p.Email != nil {
		v.Email = *p.Email
	}
	if p.Purpose != nil {
		v.Purpose = *p.Purpose
	}
	if p.CheckInTime != nil {
		v.CheckInTime = *p.CheckInTime
	}
	if p.CheckOutTime != nil {
		t := *p.CheckOutTime
		v.CheckOutTime = &t
	}
	if p.Status != nil {
		v.Status = *p.Status
	}
}
