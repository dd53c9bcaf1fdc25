package todo

import (
	"context"
)

// Storage keys used by the task store and its collaborators.
const (
	KeyTasks      = "tasks"
	KeyCategories = "categories"
	KeyReminders  = "reminders"
)

// Repository persists opaque JSON documents by key.
// Implementations live under internal/storage and share a compliance suite.
type Repository interface {
	// Load returns the document stored under key.
	// Returns domain.ErrNotFound if nothing has been saved under key.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the document stored under key.
	Save(ctx context.Context, key string, data []byte) error
}
