// Package storage defines the persistence contract for tasks. Backends live in
// the sub-packages.
package storage

import (
	"context"
	"errors"

	"taskhub/internal/models"
)

// Partition is the logical partition every backend keeps tasks under.
const Partition = "tasks"

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Store holds the canonical copy of every task. Implementations return copies;
// callers never share memory with the store. Concurrent writers to the same id
// follow last-writer-wins.
type Store interface {
	Insert(ctx context.Context, t models.Task) error
	Get(ctx context.Context, id string) (models.Task, error)
	// List returns every task, or only those whose status equals status
	// exactly when it is non-empty.
	List(ctx context.Context, status string) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) error
	Delete(ctx context.Context, id string) error
	Close() error
}
