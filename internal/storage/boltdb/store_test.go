package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/storage/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func TestBoltStore_Compliance(t *testing.T) {
	compliance.RunStorageComplianceTest(t, func() (todo.Repository, func()) {
		store, err := Open(filepath.Join(t.TempDir(), "quadrant.bolt"), "")
		require.NoError(t, err)

		return store, func() { store.Close() }
	})
}

func TestBoltStore_SeparateBuckets(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.bolt")

	a, err := Open(path, "alpha")
	require.NoError(t, err)
	require.NoError(t, a.Save(ctx, todo.KeyTasks, []byte(`["alpha"]`)))
	require.NoError(t, a.Close())

	b, err := Open(path, "beta")
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Load(ctx, todo.KeyTasks)
	assert.Error(t, err)
}

func TestBoltStore_NilStore(t *testing.T) {
	var s *Store
	_, err := s.Load(context.Background(), todo.KeyTasks)
	assert.ErrorIs(t, err, bolt.ErrDatabaseNotOpen)
}
