package users

import (
	"fmt"
	"strings"
)

// User error types
const (
	UserErrorTypeInvalidRequest      = "invalid_request"
	UserErrorTypeValidationFailed    = "validation_failed"
	UserErrorTypeNotFound            = "not_found"
	UserErrorTypeUpstreamUnavailable = "upstream_unavailable"
	UserErrorTypeStorageFailed       = "storage_failed"
)

// FieldError describes a single validation failure on an input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// UserError represents errors occurring during user operations. The Type
// constant determines the HTTP status a handler maps it to; Fields is only
// populated for validation failures.
type UserError struct {
	Type    string
	UserID  string
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *UserError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "user error [%s]", e.Type)
	if e.UserID != "" {
		fmt.Fprintf(&b, " for user %s", e.UserID)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// NewInvalidRequestError creates an error for a malformed request, such as a
// missing path identifier.
func NewInvalidRequestError(message string) *UserError {
	return &UserError{
		Type:    UserErrorTypeInvalidRequest,
		Message: message,
	}
}

// NewValidationError creates an error carrying field-level validation detail.
func NewValidationError(fields []FieldError) *UserError {
	return &UserError{
		Type:    UserErrorTypeValidationFailed,
		Message: "input validation failed",
		Fields:  fields,
	}
}

// NewUserNotFoundError creates an error for when no record exists at an id.
func NewUserNotFoundError(userID string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		UserID:  userID,
		Message: "user not found",
	}
}

// NewUpstreamError creates an error for geocode provider failures.
func NewUpstreamError(cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeUpstreamUnavailable,
		Message: "geocode provider unavailable",
		Cause:   cause,
	}
}

// NewStorageError creates an error for store failures.
func NewStorageError(userID string, message string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeStorageFailed,
		UserID:  userID,
		Message: message,
		Cause:   cause,
	}
}
