package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/quadrant/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []ErrorField `json:"details,omitempty"`
}

// ErrorField describes a field-specific error.
type ErrorField struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// BadRequest sends a 400 Bad Request error.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// ValidationError sends a 400 validation error with field details.
func ValidationError(w http.ResponseWriter, field, issue string) {
	Validation(w, ErrorField{Field: field, Issue: issue})
}

// Problems sends a 400 validation error listing task validation messages.
func Problems(w http.ResponseWriter, problems []string) {
	fields := make([]ErrorField, 0, len(problems))
	for _, p := range problems {
		fields = append(fields, ErrorField{Field: "task", Issue: p})
	}
	Validation(w, fields...)
}

// Validation sends a 400 validation error with the given details.
func Validation(w http.ResponseWriter, fields ...ErrorField) {
	write(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: "validation failed",
			Details: fields,
		},
	})
}

// NotFound sends a 404 Not Found error.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, "NOT_FOUND", resource+" not found", http.StatusNotFound)
}

// Conflict sends a 409 Conflict error.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "CONFLICT", message, http.StatusConflict)
}

// InternalError sends a 500 Internal Server Error. The error is logged and
// the client gets a generic message.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		slog.ErrorContext(r.Context(), "internal server error", "error", err)
	}
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// Error sends a generic error response.
func Error(w http.ResponseWriter, code, message string, statusCode int) {
	write(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// FromDomainError maps domain errors to HTTP responses.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// 400
	case errors.Is(err, domain.ErrInvalidTask):
		BadRequest(w, "task payload is required")
	case errors.Is(err, domain.ErrInvalidScore):
		ValidationError(w, "score", "must be between 0 and 100")
	case errors.Is(err, domain.ErrInvalidPriority):
		ValidationError(w, "priority", "must be high, medium or low")
	case errors.Is(err, domain.ErrInvalidRecurrenceType):
		ValidationError(w, "recurrenceType", "unknown recurrence type")
	case errors.Is(err, domain.ErrCategoryNameRequired):
		ValidationError(w, "name", "required field missing")

	// 404
	case errors.Is(err, domain.ErrTaskNotFound):
		NotFound(w, "task")
	case errors.Is(err, domain.ErrCategoryNotFound):
		NotFound(w, "category")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "resource")

	// 409
	case errors.Is(err, domain.ErrCategoryNameExists), errors.Is(err, domain.ErrLastCategory):
		Conflict(w, err.Error())

	default:
		InternalError(w, r, err)
	}
}

func write(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
