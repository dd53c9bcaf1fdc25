// Package compliance holds the behavior every storage backend must share.
package compliance

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStorageComplianceTest runs a standard set of tests against a Repository implementation.
// setup returns a fresh (clean) Repository and a cleanup function for it.
func RunStorageComplianceTest(t *testing.T, setup func() (todo.Repository, func())) {
	t.Run("LoadMissingKey", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.Load(ctx, "missing-"+uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		doc := []byte(`[{"id":"t1","title":"写周报","completed":false}]`)
		require.NoError(t, store.Save(ctx, todo.KeyTasks, doc))

		loaded, err := store.Load(ctx, todo.KeyTasks)
		require.NoError(t, err)
		assert.Equal(t, doc, loaded)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, todo.KeyCategories, []byte(`[{"id":"a"},{"id":"b"}]`)))
		require.NoError(t, store.Save(ctx, todo.KeyCategories, []byte(`[{"id":"a"}]`)))

		loaded, err := store.Load(ctx, todo.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"a"}]`, string(loaded))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, todo.KeyTasks, []byte(`["tasks"]`)))
		require.NoError(t, store.Save(ctx, todo.KeyReminders, []byte(`["reminders"]`)))

		tasks, err := store.Load(ctx, todo.KeyTasks)
		require.NoError(t, err)
		reminders, err := store.Load(ctx, todo.KeyReminders)
		require.NoError(t, err)

		assert.Equal(t, `["tasks"]`, string(tasks))
		assert.Equal(t, `["reminders"]`, string(reminders))
	})

	t.Run("LoadedBytesAreOwnedByCaller", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, todo.KeyTasks, []byte(`[1,2,3]`)))

		first, err := store.Load(ctx, todo.KeyTasks)
		require.NoError(t, err)
		for i := range first {
			first[i] = 'x'
		}

		second, err := store.Load(ctx, todo.KeyTasks)
		require.NoError(t, err)
		assert.Equal(t, `[1,2,3]`, string(second))
	})

	t.Run("LargeDocument", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		doc := append([]byte(`"`), bytes.Repeat([]byte("a"), 512*1024)...)
		doc = append(doc, '"')
		require.NoError(t, store.Save(ctx, todo.KeyTasks, doc))

		loaded, err := store.Load(ctx, todo.KeyTasks)
		require.NoError(t, err)
		assert.Len(t, loaded, len(doc))
	})
}
