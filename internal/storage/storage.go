// Package storage opens the key/value backend selected by configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/rezkam/quadrant/internal/application/todo"
	"github.com/rezkam/quadrant/internal/config"
	"github.com/rezkam/quadrant/internal/storage/boltdb"
	"github.com/rezkam/quadrant/internal/storage/fs"
	"github.com/rezkam/quadrant/internal/storage/gcs"
	"github.com/rezkam/quadrant/internal/storage/postgres"
	"github.com/rezkam/quadrant/internal/storage/redis"
	"github.com/rezkam/quadrant/internal/storage/sqlite"
)

// Store is a Repository that holds resources until closed.
type Store interface {
	todo.Repository
	io.Closer
}

// Compile-time verification that every backend is a Store.
var (
	_ Store = (*fs.Store)(nil)
	_ Store = (*gcs.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*postgres.Store)(nil)
	_ Store = (*boltdb.Store)(nil)
	_ Store = (*redis.Store)(nil)
)

// Open connects to the backend named by cfg.Type.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Type, err)
	}
	slog.InfoContext(ctx, "storage initialized", "type", cfg.Type, "location", Describe(cfg))
	return store, nil
}

func open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case config.StorageFS:
		return nonNil(fs.NewStore(cfg.Dir))
	case config.StorageGCS:
		return nonNil(gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix))
	case config.StorageSQLite:
		return nonNil(sqlite.NewStore(ctx, cfg.SQLitePath))
	case config.StoragePostgres:
		return nonNil(postgres.NewStore(ctx, postgres.DBConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		}))
	case config.StorageBolt:
		return nonNil(boltdb.Open(cfg.BoltPath, cfg.BoltBucket))
	case config.StorageRedis:
		return nonNil(redis.NewStore(ctx, cfg.RedisURL, cfg.RedisPrefix))
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// nonNil keeps a failed constructor's typed nil out of the Store interface.
func nonNil[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Describe names the configured location for logs, masking credentials.
func Describe(cfg config.StorageConfig) string {
	switch cfg.Type {
	case config.StorageFS:
		return cfg.Dir
	case config.StorageGCS:
		return "gs://" + cfg.GCSBucket + "/" + cfg.GCSPrefix
	case config.StorageSQLite:
		return cfg.SQLitePath
	case config.StoragePostgres:
		return maskPassword(cfg.PostgresDSN)
	case config.StorageBolt:
		return cfg.BoltPath
	case config.StorageRedis:
		return maskPassword(cfg.RedisURL)
	default:
		return ""
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
