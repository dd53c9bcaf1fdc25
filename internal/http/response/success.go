package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// internalErrorJSON is written when a success payload cannot be encoded.
const internalErrorJSON = `{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}`

// OK sends a 200 OK response with JSON data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 Created response with JSON data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// JSON encodes data before writing the status, so an encoding failure turns
// into a 500 instead of a truncated success.
func JSON(w http.ResponseWriter, statusCode int, data any) {
	body, err := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(internalErrorJSON))
		return
	}
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}
