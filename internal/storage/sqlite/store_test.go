package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"taskhub/internal/storage"
	"taskhub/internal/storage/sqlite"
	"taskhub/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := sqlite.Open(":memory:", nil)
		require.NoError(t, err)
		return s
	})
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open("", nil)
	require.ErrorContains(t, err, "empty database path")
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	ctx := context.Background()

	s, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	task := storagetest.NewTask("persisted", 0)
	require.NoError(t, s.Insert(ctx, task))
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	storagetest.AssertTaskEqual(t, task, got)
}
