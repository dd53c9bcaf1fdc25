// Package boltdb stores documents in a bbolt database file.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rezkam/quadrant/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Store is a bbolt implementation of todo.Repository. All documents live in
// one bucket.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the database file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "quadrant"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Load reads the document stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// Save replaces the document stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), data)
	})
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
