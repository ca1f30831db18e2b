package models

import "time"

// Trainer is a staff trainer. Trainers are kept in memory only.
type Trainer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TrainerPatch lists the updatable Trainer fields.
type TrainerPatch struct {
	Name           *string
	Email          *string
	Phone          *string
	Specialization *string
	Status         *string
}

// Apply copies the supplied fields onto t.
func (p TrainerPatch) Apply(t *Trainer) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Email != nil {
		t.Email = *p.Email
	}
	if p.Phone != nil {
		t.Phone = *p.Phone
	}
	if p.Specialization != nil {
		t.Specialization = *p.Specialization
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}
