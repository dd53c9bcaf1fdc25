package domain

import "errors"

// Domain errors returned by the store and repository implementations.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTask indicates a missing task payload.
	ErrInvalidTask = errors.New("invalid task")

	// ErrCategoryNotFound indicates the specified category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrLastCategory is returned when deleting the only remaining category.
	ErrLastCategory = errors.New("cannot delete the last category")

	// ErrCategoryNameRequired indicates an empty category name.
	ErrCategoryNameRequired = errors.New("category name is required")

	// ErrCategoryNameExists indicates a category with the same name already exists.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrInvalidPriority indicates an unknown priority value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidRecurrenceType indicates an unknown recurrence type.
	ErrInvalidRecurrenceType = errors.New("invalid recurrence type")

	// ErrInvalidScore indicates a score outside 0-100.
	ErrInvalidScore = errors.New("score must be between 0 and 100")
)
