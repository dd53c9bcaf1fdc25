package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/storage/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Compliance(t *testing.T) {
	compliance.RunStorageComplianceTest(t, func() (todo.Repository, func()) {
		store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "quadrant.db"))
		require.NoError(t, err)

		return store, func() { store.Close() }
	})
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "quadrant.db")

	store, err := NewStore(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, todo.KeyTasks, []byte(`[{"id":"a"}]`)))
	require.NoError(t, store.Close())

	// migrations are idempotent on an existing database
	store, err = NewStore(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Load(ctx, todo.KeyTasks)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(data))
}
