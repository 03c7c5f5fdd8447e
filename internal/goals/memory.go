package goals

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/fincoach/internal/model"
)

// MemoryStore keeps goals for the lifetime of a session.
type MemoryStore struct {
	mu      sync.RWMutex
	goals   map[string]model.SavingsGoal
	history map[string][]Contribution
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		goals:   make(map[string]model.SavingsGoal),
		history: make(map[string][]Contribution),
	}
}

func notFound(id string) error {
	return fmt.Errorf("goal %s: %w", id, model.ErrNotFound)
}

// Save inserts or replaces a goal.
func (s *MemoryStore) Save(g model.SavingsGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return nil
}

// Get returns one goal.
func (s *MemoryStore) Get(id string) (model.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return model.SavingsGoal{}, notFound(id)
	}
	return g, nil
}

// List returns every goal ordered by creation time.
func (s *MemoryStore) List() ([]model.SavingsGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SavingsGoal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.Before(out[j].CreatedDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a goal and its history.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return notFound(id)
	}
	delete(s.goals, id)
	delete(s.history, id)
	return nil
}

// Contribute adds amount to a goal and records it.
func (s *MemoryStore) Contribute(id string, amount float64, at time.Time) (model.SavingsGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return model.SavingsGoal{}, notFound(id)
	}
	g.AccumulatedAmount += amount
	s.goals[id] = g
	s.history[id] = append(s.history[id], Contribution{Amount: amount, At: at})
	return g, nil
}

// Contributions returns a copy of a goal's history.
func (s *MemoryStore) Contributions(id string) ([]Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.history[id]
	out := make([]Contribution, len(h))
	copy(out, h)
	return out, nil
}
