package store

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// AddCheckIn records a member visit. A zero CheckInTime means now. When the
// member exists its visit count and last visit are updated, and an empty
// MemberName is filled in from the member record.
func (s *Store) AddCheckIn(c models.CheckIn) models.CheckIn {
	s.mutate(EntityCheckIns, "add", func(now time.Time) bool {
		c.ID = s.newID()
		if c.CheckInTime.IsZero() {
			c.CheckInTime = now
		}
		c.Date = c.CheckInTime.Format(models.DayLayout)
		if m, ok := s.members.get(c.MemberID); ok {
			m = m.Clone()
			m.TotalVisits++
			visit := c.CheckInTime
			m.LastVisit = &visit
			m.UpdatedAt = now
			s.members.set(m.ID, m)
			if c.MemberName == "" {
				c.MemberName = m.Name
			}
		}
		s.checkIns.set(c.ID, c)
		s.logActivityLocked(now, models.ActivityCheckIn, "Member checked in", c.MemberName,
			"Checked in at "+c.CheckInTime.Format("15:04"), c.MemberID)
		return true
	})
	return c
}

// UpdateCheckIn applies p to the check-in with id. Missing ids are ignored.
func (s *Store) UpdateCheckIn(id string, p models.CheckInPatch) {
	s.mutate(EntityCheckIns, "update", func(now time.Time) bool {
		c, ok := s.checkIns.get(id)
		if !ok {
			return false
		}
		p.Apply(&c)
		s.checkIns.set(id, c)
		s.logActivityLocked(now, models.ActivityCheckIn, "Check-in updated", c.MemberName, "Check-in details updated", c.MemberID)
		return true
	})
}

// DeleteCheckIn removes the check-in with id. Missing ids are ignored.
func (s *Store) DeleteCheckIn(id string) {
	s.mutate(EntityCheckIns, "delete", func(now time.Time) bool {
		c, ok := s.checkIns.get(id)
		if !ok {
			return false
		}
		s.checkIns.remove(id)
		s.logActivityLocked(now, models.ActivityCheckIn, "Check-in deleted", c.MemberName, "Check-in removed", c.MemberID)
		return true
	})
}

// CheckIn returns the check-in with id.
func (s *Store) CheckIn(id string) (models.CheckIn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkIns.get(id)
}

// CheckIns returns all check-ins in insertion order.
func (s *Store) CheckIns() []models.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkIns.list(identity[models.CheckIn])
}

// CheckInsOn returns the check-ins whose Date is day (YYYY-MM-DD).
func (s *Store) CheckInsOn(day string) []models.CheckIn {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.CheckIn
	for _, id := range s.checkIns.order {
		if c := s.checkIns.items[id]; c.Date == day {
			out = append(out, c)
		}
	}
	return out
}
