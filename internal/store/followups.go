package store

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// AddFollowUp stores a new follow-up. CreatedBy and AssignedTo default to the
// signed-in user; status, priority and category default to pending, medium
// and general.
func (s *Store) AddFollowUp(f models.FollowUp) models.FollowUp {
	s.mutate(EntityFollowUps, "add", func(now time.Time) bool {
		f = f.Clone()
		f.ID = s.newID()
		f.CreatedAt, f.UpdatedAt = now, now
		user := s.user.UserID()
		if f.CreatedBy == "" {
			f.CreatedBy = user
		}
		if f.AssignedTo == "" {
			f.AssignedTo = user
		}
		if f.Status == "" {
			f.Status = models.FollowUpPending
		}
		if f.Priority == "" {
			f.Priority = models.PriorityMedium
		}
		if f.Category == "" {
			f.Category = models.CategoryGeneral
		}
		f.Normalize()
		s.followUps.set(f.ID, f)
		s.logActivityLocked(now, models.ActivityFollowUp, "Follow-up scheduled", f.Contact.Name,
			"Due "+f.DueDate.Format(models.DayLayout), f.MemberID)
		return true
	})
	return f.Clone()
}

// UpdateFollowUp applies p to the follow-up with id. Missing ids are ignored.
func (s *Store) UpdateFollowUp(id string, p models.FollowUpPatch) {
	s.mutate(EntityFollowUps, "update", func(now time.Time) bool {
		cur, ok := s.followUps.get(id)
		if !ok {
			return false
		}
		f := cur.Clone()
		p.Apply(&f)
		f.Normalize()
		f.UpdatedAt = now
		s.followUps.set(id, f)
		s.logActivityLocked(now, models.ActivityFollowUp, "Follow-up updated", f.Contact.Name,
			"Status: "+string(f.Status), f.MemberID)
		return true
	})
}

// DeleteFollowUp removes the follow-up with id. Missing ids are ignored.
func (s *Store) DeleteFollowUp(id string) {
	s.mutate(EntityFollowUps, "delete", func(now time.Time) bool {
		f, ok := s.followUps.get(id)
		if !ok {
			return false
		}
		s.followUps.remove(id)
		s.logActivityLocked(now, models.ActivityFollowUp, "Follow-up deleted", f.Contact.Name, "Follow-up removed", f.MemberID)
		return true
	})
}

// FollowUp returns the follow-up with id.
func (s *Store) FollowUp(id string) (models.FollowUp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.followUps.get(id)
	return f.Clone(), ok
}

// FollowUps returns all follow-ups in insertion order.
func (s *Store) FollowUps() []models.FollowUp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.followUps.list(models.FollowUp.Clone)
}
