package store

import (
	"time"

	"github.com/mmynk/gymdesk/internal/models"
)

// AddTrainer adds a staff trainer. Status defaults to "active".
func (s *Store) AddTrainer(t models.Trainer) models.Trainer {
	s.mutate(EntityTrainers, "add", func(now time.Time) bool {
		t.ID = s.newID()
		t.CreatedAt, t.UpdatedAt = now, now
		if t.Status == "" {
			t.Status = "active"
		}
		s.trainers.set(t.ID, t)
		s.logActivityLocked(now, models.ActivityTrainer, "Trainer added", t.Name, t.Specialization, "")
		return true
	})
	return t
}

func (s *Store) UpdateTrainer(id string, p models.TrainerPatch) {
	s.mutate(EntityTrainers, "update", func(now time.Time) bool {
		t, ok := s.trainers.get(id)
		if !ok {
			return false
		}
		p.Apply(&t)
		t.UpdatedAt = now
		s.trainers.set(id, t)
		s.logActivityLocked(now, models.ActivityTrainer, "Trainer updated", t.Name, "Trainer details updated", "")
		return true
	})
}

func (s *Store) DeleteTrainer(id string) {
	s.mutate(EntityTrainers, "delete", func(now time.Time) bool {
		t, ok := s.trainers.get(id)
		if !ok {
			return false
		}
		s.trainers.remove(id)
		s.logActivityLocked(now, models.ActivityTrainer, "Trainer removed", t.Name, "Trainer removed", "")
		return true
	})
}

func (s *Store) Trainer(id string) (models.Trainer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trainers.get(id)
}

func (s *Store) Trainers() []models.Trainer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trainers.list(identity[models.Trainer])
}
