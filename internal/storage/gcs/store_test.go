package gcs

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/config"
	"github.com/rezkam/quadrant/internal/storage/compliance"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"
)

func TestGCSStore_Compliance(t *testing.T) {
	testCfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	if testCfg.GCSBucket == "" {
		t.Skip("TEST_GCS_BUCKET not set, skipping GCS tests")
	}
	bucket := testCfg.GCSBucket

	compliance.RunStorageComplianceTest(t, func() (todo.Repository, func()) {
		// Note: This assumes Application Default Credentials are set up
		// and point to a valid project with access to the bucket.
		ctx := context.Background()

		// every run writes under its own prefix so cleanup never touches other data
		prefix := "quadrant-test-" + uuid.NewString() + "/"
		store, err := NewStore(ctx, bucket, prefix)
		require.NoError(t, err)

		cleanup := func() {
			defer store.Close()
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			it := store.client.Bucket(bucket).Objects(cleanupCtx, &storage.Query{Prefix: prefix})
			for {
				attrs, err := it.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					t.Logf("Warning: failed to list objects during cleanup: %v", err)
					break
				}
				if err := store.client.Bucket(bucket).Object(attrs.Name).Delete(cleanupCtx); err != nil {
					t.Logf("Warning: failed to delete object %s: %v", attrs.Name, err)
				}
			}
		}

		return store, cleanup
	})
}
