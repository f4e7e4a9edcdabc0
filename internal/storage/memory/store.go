package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"taskhub/internal/models"
	"taskhub/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps tasks in process memory in insertion order. Each instance is
// independent; nothing is shared between stores.
type Store struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]models.Task
}

// New returns an empty store.
func New() *Store {
	return &Store{tasks: make(map[string]models.Task)}
}

// Insert appends a task. Ids must be unique.
func (s *Store) Insert(_ context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return fmt.Errorf("task %s already exists", t.ID)
	}
	s.tasks[t.ID] = t.Clone()
	s.order = append(s.order, t.ID)
	return nil
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(_ context.Context, id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return t.Clone(), nil
}

// List returns tasks in insertion order, optionally filtered by status.
func (s *Store) List(_ context.Context, status string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.tasks[id]
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t.Clone())
	}
	return out, nil
}

// Update replaces an existing task in place, keeping its position.
func (s *Store) Update(_ context.Context, t models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return storage.ErrNotFound
	}
	s.tasks[t.ID] = t.Clone()
	return nil
}

// Delete removes a task permanently.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
