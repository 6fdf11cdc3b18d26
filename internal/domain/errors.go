package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing news item, company or stored key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource (registered email, watched company).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuery signals a malformed sort, filter or paging parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidPreference signals an unknown preference key or an out-of-range value.
	ErrInvalidPreference = errors.New("invalid preference")
	// ErrUnauthorized signals a missing or expired credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDatasetUnavailable signals that no dataset snapshot has been loaded yet.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
	// ErrAnalysisDisabled signals that no analysis provider is configured.
	ErrAnalysisDisabled = errors.New("analysis disabled")
	// ErrAnalysisProvider signals an analysis provider failure.
	ErrAnalysisProvider = errors.New("analysis provider error")
	// ErrAnalysisQuotaExceeded signals that the analysis token budget is spent.
	ErrAnalysisQuotaExceeded = errors.New("analysis quota exceeded")
)

// FieldError wraps ErrInvalidQuery with the offending parameter.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidQuery.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidQuery }

// NewFieldError creates an invalid query error for a single parameter.
func NewFieldError(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}
