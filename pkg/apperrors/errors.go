package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinels for the error taxonomy. Everything the lifecycle manager can
// fail with is classified as exactly one of these so callers can branch
// with errors.Is instead of string matching.
var (
	ErrNotFound       = errors.New("record not found")
	ErrConflict       = errors.New("uniqueness conflict")
	ErrTransientStore = errors.New("store temporarily unavailable")
	// ErrAuditWrite never crosses the audit recorder boundary; it exists
	// so the recorder can classify failures in its own logs.
	ErrAuditWrite = errors.New("audit write failed")
)

// HttpError carries an HTTP status together with structured, field-scoped
// detail. It is the only error type controllers render directly.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]string
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]string) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// ValidationError enumerates every offending field and reason; the payload
// is rejected as a whole, nothing is partially persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, ", ")
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewNotFoundError(what string) *HttpError {
	return NewHttpError(http.StatusNotFound, fmt.Sprintf("%s not found", what), ErrNotFound, nil)
}

func NewConflictError(key string, err error) *HttpError {
	return NewHttpError(http.StatusConflict, fmt.Sprintf("record with key %q already exists", key),
		fmt.Errorf("%w: %v", ErrConflict, err), map[string]string{"uniqueKey": key})
}

func NewTransientStoreError(err error) *HttpError {
	return NewHttpError(http.StatusServiceUnavailable, "primary store temporarily unavailable",
		fmt.Errorf("%w: %v", ErrTransientStore, err), nil)
}

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }
func IsTransient(err error) bool { return errors.Is(err, ErrTransientStore) }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
