// Package gcs stores each document as an object in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/rezkam/quadrant/internal/domain"
)

// Store is a GCS-based implementation of todo.Repository.
type Store struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewStore creates a new GCS store writing objects named prefix+key+".json".
// It assumes the client is authenticated (e.g. via GOOGLE_APPLICATION_CREDENTIALS).
func NewStore(ctx context.Context, bucketName, prefix string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client: client,
		bucket: bucketName,
		prefix: prefix,
	}, nil
}

func (s *Store) objectName(key string) string {
	return fmt.Sprintf("%s%s.json", s.prefix, key)
}

// Load reads the document stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(key))

	r, err := obj.NewReader(ctx)
	if err != nil {
		// Use errors.Is to handle wrapped errors from GCS client
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// Save replaces the document stored under key. GCS object writes are atomic:
// the new content becomes visible only when the writer closes successfully.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	obj := s.client.Bucket(s.bucket).Object(s.objectName(key))

	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

// Close releases the GCS client.
func (s *Store) Close() error {
	return s.client.Close()
}
