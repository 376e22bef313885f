package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure into one of the buckets the HTTP boundary
// knows how to render. Every business-rule failure raised by a service
// is one of these; anything unclassified is treated as internal.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindPermissionDenied
	KindConflict
	KindUnsupportedState
)

// AppError is a custom error type carrying a failure kind and a user-facing message.
type AppError struct {
	Kind    Kind
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns a stable machine-readable code for the error kind.
func (e *AppError) Code() string {
	switch e.Kind {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindUnsupportedState:
		return "unsupported_state"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code the error kind maps to.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindUnsupportedState:
		return http.StatusBadRequest
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError with a kind and message.
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func PermissionDenied(message string) *AppError {
	return New(KindPermissionDenied, message)
}

func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

func UnsupportedState(message string) *AppError {
	return New(KindUnsupportedState, message)
}

// KindOf extracts the Kind from any error in the chain,
// defaulting to KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether any error in the chain is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
