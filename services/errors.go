package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/krshsl/admitwise/backend/repository"
)

var validate = validator.New()

// maxRequestBody bounds JSON request bodies; extracted document text can be long
const maxRequestBody = 1 << 20

var (
	// ErrNotAuthenticated means no student identity could be resolved; nothing is written
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrProfileNotFound means recommendations were requested before any profile exists
	ErrProfileNotFound = errors.New("complete your profile first")
	// ErrCatalogUnavailable means the university catalog could not be fetched; callers may retry
	ErrCatalogUnavailable = errors.New("university catalog unavailable")

	ErrDocumentNotFound    = errors.New("document not found")
	ErrUniversityNotFound  = errors.New("university not found")
	ErrInvalidDocumentType = errors.New("invalid document type")
	ErrDocumentOwnership   = errors.New("document belongs to another student")
	ErrExtractionFailed    = errors.New("document extraction failed")
	ErrInvalidRequest      = errors.New("invalid request")
)

// ErrorResponse is the JSON body written for failed requests
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDocumentOwnership):
		return http.StatusForbidden
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrDocumentNotFound),
		errors.Is(err, ErrUniversityNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidDocumentType),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrDuplicateDocument):
		return http.StatusConflict
	case errors.Is(err, ErrExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as JSON; internal errors are not echoed to the client
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "status", status)
	}

	writeJSON(w, status, ErrorResponse{
		Error:     msg,
		Retryable: errors.Is(err, ErrCatalogUnavailable),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// decodeRequest reads a JSON body into dst and validates its struct tags
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", ErrInvalidRequest)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
