package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Store error taxonomy.
	ErrNotConnected = New("NOT_CONNECTED", http.StatusServiceUnavailable, "database unreachable")
	ErrDuplicateKey = New("DUPLICATE_KEY", http.StatusConflict, "duplicate key")
	ErrConstraint   = New("CONSTRAINT_VIOLATION", http.StatusConflict, "referential integrity violation")
	ErrQueryFailed  = New("QUERY_FAILED", http.StatusInternalServerError, "query failed")
	ErrTimeout      = New("TIMEOUT", http.StatusGatewayTimeout, "store call timed out")

	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// FromDBError classifies a database error into the store taxonomy so callers can
// branch on cause instead of string-matching driver messages. sql.ErrNoRows maps
// to NOT_FOUND; unique and foreign-key violations map to their own kinds; context
// deadlines and connection failures get distinct kinds as well.
func FromDBError(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(err, ErrNotFound.Code, ErrNotFound.Status, message)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, ErrTimeout.Code, ErrTimeout.Status, message)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return Wrap(err, ErrNotConnected.Code, ErrNotConnected.Status, message)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		switch {
		case code == "23505":
			return Wrap(err, ErrDuplicateKey.Code, ErrDuplicateKey.Status, message)
		case strings.HasPrefix(code, "23"):
			return Wrap(err, ErrConstraint.Code, ErrConstraint.Status, message)
		case strings.HasPrefix(code, "08"):
			return Wrap(err, ErrNotConnected.Code, ErrNotConnected.Status, message)
		case code == "57014":
			return Wrap(err, ErrTimeout.Code, ErrTimeout.Status, message)
		}
	}

	return Wrap(err, ErrQueryFailed.Code, ErrQueryFailed.Status, message)
}

// IsKind reports whether err carries the given error code.
func IsKind(err error, kind *Error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == kind.Code
}
