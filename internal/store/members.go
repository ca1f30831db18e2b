package store

import (
	"fmt"
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// AddMember stores a new member and returns it with its id and timestamps.
// An empty Status defaults to active.
func (s *Store) AddMember(m models.Member) models.Member {
	s.mutate(EntityMembers, "add", func(now time.Time) bool {
		m = m.Clone()
		m.ID = s.newID()
		m.CreatedAt, m.UpdatedAt = now, now
		if m.Status == "" {
			m.Status = models.MemberActive
		}
		s.members.set(m.ID, m)
		s.logActivityLocked(now, models.ActivityMember, "New member added", m.Name,
			fmt.Sprintf("Joined on %s plan", m.MembershipType), m.ID)
		return true
	})
	return m.Clone()
}

// UpdateMember applies p to the member with id. Missing ids are ignored.
func (s *Store) UpdateMember(id string, p models.MemberPatch) {
	s.mutate(EntityMembers, "update", func(now time.Time) bool {
		cur, ok := s.members.get(id)
		if !ok {
			return false
		}
		m := cur.Clone()
		p.Apply(&m)
		m.UpdatedAt = now
		s.members.set(id, m)
		s.logActivityLocked(now, models.ActivityMember, "Member updated", m.Name, "Member details updated", id)
		return true
	})
}

// DeleteMember removes the member with id. Missing ids are ignored.
func (s *Store) DeleteMember(id string) {
	s.mutate(EntityMembers, "delete", func(now time.Time) bool {
		m, ok := s.members.get(id)
		if !ok {
			return false
		}
		s.members.remove(id)
		s.logActivityLocked(now, models.ActivityMember, "Member deleted", m.Name, "Member removed", id)
		return true
	})
}

// Member returns the member with id.
func (s *Store) Member(id string) (models.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members.get(id)
	return m.Clone(), ok
}

// Members returns all members in insertion order.
func (s *Store) Members() []models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.list(models.Member.Clone)
}

// AutoExpireMembers marks active members whose end date has passed as
// expired and returns how many changed. It writes no activity entries and
// is safe to run repeatedly.
func (s *Store) AutoExpireMembers() int {
	var expired int
	s.mutate(EntityMembers, "expire", func(now time.Time) bool {
		for _, id := range s.members.order {
			m := s.members.items[id]
			if m.Status != models.MemberActive || m.EndDate.IsZero() || !m.EndDate.Before(now) {
				continue
			}
			m = m.Clone()
			m.Status = models.MemberExpired
			m.UpdatedAt = now
			s.members.set(id, m)
			expired++
		}
		return expired > 0
	})
	if expired > 0 {
		s.logger.Info("Expired lapsed memberships", "count", expired)
	}
	return expired
}
