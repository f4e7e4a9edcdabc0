// Package storagetest holds the behaviour every storage.Store backend must share.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
	"taskhub/internal/storage"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// NewTask builds a pending task created n minutes after a fixed instant.
func NewTask(id string, n int) models.Task {
	return models.Task{
		ID:          id,
		Title:       "task " + id,
		Description: "description " + id,
		Status:      models.StatusPending,
		CreatedAt:   base.Add(time.Duration(n) * time.Minute),
	}
}

// AssertTaskEqual compares tasks field by field, using time equality for
// timestamps so backends may return a different location.
func AssertTaskEqual(t *testing.T, want, got models.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.Status, got.Status)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %s, got %s", want.CreatedAt, got.CreatedAt)
	if want.CompletedAt == nil {
		assert.Nil(t, got.CompletedAt)
		return
	}
	require.NotNil(t, got.CompletedAt)
	assert.True(t, want.CompletedAt.Equal(*got.CompletedAt), "completed_at: want %s, got %s", *want.CompletedAt, *got.CompletedAt)
}

// Run exercises the storage contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert then get", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		task := NewTask("a", 0)
		require.NoError(t, s.Insert(ctx, task))

		got, err := s.Get(ctx, "a")
		require.NoError(t, err)
		AssertTaskEqual(t, task, got)
	})

	t.Run("insert duplicate id", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, s.Insert(ctx, NewTask("dup", 0)))
		require.Error(t, s.Insert(ctx, NewTask("dup", 1)))
	})

	t.Run("get unknown id", func(t *testing.T) {
		s := open(t, newStore)

		_, err := s.Get(context.Background(), "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list all and by status", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		for i := 0; i < 4; i++ {
			task := NewTask(fmt.Sprintf("t%d", i), i)
			if i%2 == 1 {
				task.Status = models.StatusCompleted
				at := task.CreatedAt.Add(time.Hour)
				task.CompletedAt = &at
			}
			require.NoError(t, s.Insert(ctx, task))
		}

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"t0", "t1", "t2", "t3"}, ids(all))

		done, err := s.List(ctx, models.StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t3"}, ids(done))

		none, err := s.List(ctx, "Completed")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list empty store", func(t *testing.T) {
		s := open(t, newStore)

		all, err := s.List(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("update replaces record", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		task := NewTask("u", 0)
		require.NoError(t, s.Insert(ctx, task))

		task.Title = "renamed"
		task.Status = models.StatusCompleted
		at := task.CreatedAt.Add(90 * time.Minute)
		task.CompletedAt = &at
		require.NoError(t, s.Update(ctx, task))

		got, err := s.Get(ctx, "u")
		require.NoError(t, err)
		AssertTaskEqual(t, task, got)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.ErrorIs(t, s.Update(ctx, NewTask("ghost", 0)), storage.ErrNotFound)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all, "update must not create records")
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		require.NoError(t, s.Insert(ctx, NewTask("keep", 0)))
		require.NoError(t, s.Insert(ctx, NewTask("drop", 1)))

		require.NoError(t, s.Delete(ctx, "drop"))
		_, err := s.Get(ctx, "drop")
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.ErrorIs(t, s.Delete(ctx, "drop"), storage.ErrNotFound)

		all, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, ids(all))
	})

	t.Run("returned tasks are copies", func(t *testing.T) {
		s := open(t, newStore)
		ctx := context.Background()

		task := NewTask("c", 0)
		at := task.CreatedAt.Add(time.Minute)
		task.CompletedAt = &at
		require.NoError(t, s.Insert(ctx, task))

		got, err := s.Get(ctx, "c")
		require.NoError(t, err)
		got.Title = "mutated"
		*got.CompletedAt = got.CompletedAt.Add(time.Hour)

		again, err := s.Get(ctx, "c")
		require.NoError(t, err)
		AssertTaskEqual(t, task, again)
	})
}

func open(t *testing.T, newStore Factory) storage.Store {
	t.Helper()
	s := newStore(t)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
