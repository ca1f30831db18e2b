package store

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// AddVisitor signs in a walk-in visitor. Status defaults to checked-in and a
// zero CheckInTime means now.
func (s *Store) AddVisitor(v models.Visitor) models.Visitor {
	s.mutate(EntityVisitors, "add", func(now time.Time) bool {
		v = v.Clone()
		v.ID = s.newID()
		v.CreatedAt, v.UpdatedAt = now, now
		if v.CheckInTime.IsZero() {
			v.CheckInTime = now
		}
		if v.Status == "" {
			v.Status = models.VisitorCheckedIn
		}
		s.visitors.set(v.ID, v)
		s.logActivityLocked(now, models.ActivityVisitor, "Visitor checked in", v.Name, v.Purpose, "")
		return true
	})
	return v.Clone()
}

// UpdateVisitor applies p to the visitor with id. Missing ids are ignored.
func (s *Store) UpdateVisitor(id string, p models.VisitorPatch) {
	s.mutate(EntityVisitors, "update", func(now time.Time) bool {
		cur, ok := s.visitors.get(id)
		if !ok {
			return false
		}
		v := cur.Clone()
		p.Apply(&v)
		v.UpdatedAt = now
		s.visitors.set(id, v)
		s.logActivityLocked(now, models.ActivityVisitor, "Visitor updated", v.Name, "Visitor details updated", "")
		return true
	})
}

// CheckOutVisitor stamps the visitor's check-out time. Missing ids and
// visitors already checked out are ignored.
func (s *Store) CheckOutVisitor(id string) {
	s.mutate(EntityVisitors, "checkout", func(now time.Time) bool {
		cur, ok := s.visitors.get(id)
		if !ok || cur.Status == models.VisitorCheckedOut {
			return false
		}
		v := cur.Clone()
		out := now
		v.CheckOutTime = &out
		v.Status = models.VisitorCheckedOut
		v.UpdatedAt = now
		s.visitors.set(id, v)
		s.logActivityLocked(now, models.ActivityVisitor, "Visitor checked out", v.Name,
			"Stayed "+now.Sub(v.CheckInTime).Round(time.Minute).String(), "")
		return true
	})
}

// DeleteVisitor removes the visitor with id. Missing ids are ignored.
func (s *Store) DeleteVisitor(id string) {
	s.mutate(EntityVisitors, "delete", func(now time.Time) bool {
		v, ok := s.visitors.get(id)
		if !ok {
			return false
		}
		s.visitors.remove(id)
		s.logActivityLocked(now, models.ActivityVisitor, "Visitor deleted", v.Name, "Visitor removed", "")
		return true
	})
}

// Visitor returns the visitor with id.
func (s *Store) Visitor(id string) (models.Visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors.get(id)
	return v.Clone(), ok
}

// Visitors returns all visitors in insertion order.
func (s *Store) Visitors() []models.Visitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visitors.list(models.Visitor.Clone)
}
