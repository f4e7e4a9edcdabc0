// Package tasks implements the task lifecycle and the analytics derived from
// it on top of a storage.Store.
package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/models"
	"taskhub/internal/storage"
)

// Service applies lifecycle rules to tasks held by a store.
type Service struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces the time source used for created_at and completed_at.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the task id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService builds a Service over store.
func NewService(store storage.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is UTC at microsecond precision so every backend round-trips it.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create stores a new pending task. The title is stored as given.
func (s *Service) Create(ctx context.Context, title, description string) (models.Task, error) {
	if title == "" {
		return models.Task{}, NewValidationError("title is required")
	}

	t := models.Task{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
		CreatedAt:   s.timestamp(),
	}
	if err := s.store.Insert(ctx, t); err != nil {
		return models.Task{}, newStoreError("create task", err)
	}

	s.logger.Info("task created", slog.String("task_id", t.ID), slog.String("title", t.Title))
	return t, nil
}

// List returns all tasks, or only those whose status equals status.
func (s *Service) List(ctx context.Context, status string) ([]models.Task, error) {
	tasks, err := s.store.List(ctx, status)
	if err != nil {
		return nil, newStoreError("list tasks", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.logger.Debug("tasks listed", slog.String("status", status), slog.Int("count", len(tasks)))
	return tasks, nil
}

// Get returns the task with the given id.
func (s *Service) Get(ctx context.Context, id string) (models.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, s.lookupError("get task", id, err)
	}
	return t, nil
}

// Update merges patch into the task. Title and status may change but never to
// an empty value.
func (s *Service) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil && *patch.Title == "" {
		return models.Task{}, NewValidationError("title must not be empty")
	}
	if patch.Status != nil && *patch.Status == "" {
		return models.Task{}, NewValidationError("status must not be empty")
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, s.lookupError("update task", id, err)
	}

	updated := patch.Apply(current)
	if err := s.store.Update(ctx, updated); err != nil {
		return models.Task{}, s.lookupError("update task", id, err)
	}

	s.logger.Info("task updated", slog.String("task_id", id), slog.String("status", updated.Status))
	return updated, nil
}

// Complete marks the task completed and stamps completed_at. Completing an
// already completed task refreshes the timestamp.
func (s *Service) Complete(ctx context.Context, id string) (models.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, s.lookupError("complete task", id, err)
	}

	at := s.timestamp()
	if at.Before(t.CreatedAt) {
		at = t.CreatedAt
	}
	t.Status = models.StatusCompleted
	t.CompletedAt = &at

	if err := s.store.Update(ctx, t); err != nil {
		return models.Task{}, s.lookupError("complete task", id, err)
	}

	s.logger.Info("task completed", slog.String("task_id", id))
	return t, nil
}

// Delete removes the task and returns the record as it was.
func (s *Service) Delete(ctx context.Context, id string) (models.Task, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Task{}, s.lookupError("delete task", id, err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return models.Task{}, s.lookupError("delete task", id, err)
	}

	s.logger.Info("task deleted", slog.String("task_id", id))
	return t, nil
}

// CompletionStats aggregates counts over every stored task.
func (s *Service) CompletionStats(ctx context.Context) (models.CompletionStats, error) {
	all, err := s.store.List(ctx, "")
	if err != nil {
		return models.CompletionStats{}, newStoreError("completion stats", err)
	}
	return ComputeCompletionStats(all), nil
}

// ProductivityMetrics aggregates throughput over every stored task. period is
// echoed back and does not filter.
func (s *Service) ProductivityMetrics(ctx context.Context, period string) (models.ProductivityMetrics, error) {
	all, err := s.store.List(ctx, "")
	if err != nil {
		return models.ProductivityMetrics{}, newStoreError("productivity metrics", err)
	}
	return ComputeProductivityMetrics(all, period), nil
}

func (s *Service) lookupError(op, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NewNotFoundError(id)
	}
	return newStoreError(op, err)
}
