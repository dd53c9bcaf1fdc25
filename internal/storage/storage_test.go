package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rezkam/quadrant/internal/config"
	"github.com/rezkam/quadrant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_LocalBackends(t *testing.T) {
	dir := t.TempDir()
	tests := []config.StorageConfig{
		{Type: config.StorageFS, Dir: filepath.Join(dir, "fs")},
		{Type: config.StorageSQLite, SQLitePath: filepath.Join(dir, "sqlite", "quadrant.db")},
		{Type: config.StorageBolt, BoltPath: filepath.Join(dir, "bolt", "quadrant.bolt"), BoltBucket: "quadrant"},
	}

	for _, cfg := range tests {
		t.Run(cfg.Type, func(t *testing.T) {
			ctx := context.Background()
			store, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer store.Close()

			_, err = store.Load(ctx, "tasks")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			require.NoError(t, store.Save(ctx, "tasks", []byte(`[]`)))
			data, err := store.Load(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(data))
		})
	}
}

func TestOpen_UnknownType(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Type: "mysql"})
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestDescribe_MasksCredentials(t *testing.T) {
	assert.Equal(t,
		"postgres://quadrant:xxxxxx@db:5432/quadrant",
		Describe(config.StorageConfig{Type: config.StoragePostgres, PostgresDSN: "postgres://quadrant:hunter2@db:5432/quadrant"}))
	assert.Equal(t,
		"redis://:xxxxxx@cache:6379/0",
		Describe(config.StorageConfig{Type: config.StorageRedis, RedisURL: "redis://:hunter2@cache:6379/0"}))
	assert.Equal(t, "gs://bucket/quadrant/", Describe(config.StorageConfig{Type: config.StorageGCS, GCSBucket: "bucket", GCSPrefix: "quadrant/"}))
	assert.Equal(t, "[REDACTED]", maskPassword("postgres://%zz"))
}
