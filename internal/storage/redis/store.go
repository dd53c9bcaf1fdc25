// Package redis stores documents as Redis string values.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rezkam/quadrant/internal/domain"
)

// Store is a Redis implementation of todo.Repository. Every key is stored
// as prefix+key without expiry.
type Store struct {
	client *goRedis.Client
	prefix string
}

// NewStore connects to the Redis server at url and performs a health check.
func NewStore(ctx context.Context, url, prefix string) (*Store, error) {
	opts, err := goRedis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goRedis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewStoreWithClient(client, prefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *goRedis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Load reads the document stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goRedis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the document stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
