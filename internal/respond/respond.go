// Package respond writes JSON bodies and the error envelope shared by
// handlers and middleware.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes carried in the envelope.
const (
	CodeValidation   = "validation_error"
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeRateLimited  = "rate_limited"
	CodeUnavailable  = "unavailable"
	CodeInternal     = "internal"
)

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

// Error writes the error envelope.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorResponse{Error: APIError{Code: code, Message: message}})
}

// Fields writes a validation error listing each rejected field.
func Fields(w http.ResponseWriter, fields map[string]string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{Error: APIError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}})
}
