package config

import (
	"errors"
	"fmt"
	"time"
)

// Storage backends selectable through QUADRANT_STORAGE_TYPE.
const (
	StorageFS       = "fs"
	StorageGCS      = "gcs"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
)

var (
	// ErrDSNRequired is returned when the postgres backend has no DSN.
	ErrDSNRequired = errors.New("QUADRANT_POSTGRES_DSN is required")
	// ErrBucketRequired is returned when the gcs backend has no bucket.
	ErrBucketRequired = errors.New("QUADRANT_GCS_BUCKET is required")
	// ErrRedisURLRequired is returned when the redis backend has no URL.
	ErrRedisURLRequired = errors.New("QUADRANT_REDIS_URL is required")
)

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type string `env:"QUADRANT_STORAGE_TYPE" default:"fs"`

	// fs
	Dir string `env:"QUADRANT_FS_DIR" default:"./quadrant-data"`

	// gcs
	GCSBucket string `env:"QUADRANT_GCS_BUCKET"`
	GCSPrefix string `env:"QUADRANT_GCS_PREFIX" default:"quadrant/"`

	// sqlite
	SQLitePath string `env:"QUADRANT_SQLITE_PATH" default:"./quadrant-data/quadrant.db"`

	// bolt
	BoltPath   string `env:"QUADRANT_BOLT_PATH" default:"./quadrant-data/quadrant.bolt"`
	BoltBucket string `env:"QUADRANT_BOLT_BUCKET" default:"quadrant"`

	// postgres; zero pool values use the backend defaults
	PostgresDSN     string        `env:"QUADRANT_POSTGRES_DSN"`
	MaxOpenConns    int           `env:"QUADRANT_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `env:"QUADRANT_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `env:"QUADRANT_DB_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `env:"QUADRANT_DB_CONN_MAX_IDLE_TIME"`

	// redis
	RedisURL    string `env:"QUADRANT_REDIS_URL"`
	RedisPrefix string `env:"QUADRANT_REDIS_PREFIX" default:"quadrant:"`
}

// Validate checks that the selected backend has what it needs.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case StorageFS:
		if c.Dir == "" {
			return errors.New("QUADRANT_FS_DIR is required when QUADRANT_STORAGE_TYPE is 'fs'")
		}
	case StorageGCS:
		if c.GCSBucket == "" {
			return ErrBucketRequired
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("QUADRANT_SQLITE_PATH is required when QUADRANT_STORAGE_TYPE is 'sqlite'")
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return ErrDSNRequired
		}
	case StorageBolt:
		if c.BoltPath == "" {
			return errors.New("QUADRANT_BOLT_PATH is required when QUADRANT_STORAGE_TYPE is 'bolt'")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return ErrRedisURLRequired
		}
	default:
		return fmt.Errorf("unknown QUADRANT_STORAGE_TYPE: %q", c.Type)
	}
	return nil
}
