// Package errors provides structured error types for the mazegen surfaces.
//
// The core packages (grid, maze) return plain sentinel errors. The CLI and
// the HTTP API translate those into coded errors so that:
//   - callers get machine-readable codes
//   - users see messages without Go error chains
//   - HTTP handlers pick a status code from the error code alone
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - NOT_FOUND / *_NOT_FOUND: missing resources
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Translate a core error
//	err = errors.FromGraph(grid.ErrUnknownCell)
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/mazegen/pkg/grid"
	"github.com/matzehuels/mazegen/pkg/maze"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidKey      Code = "INVALID_KEY"
	ErrCodeInvalidStartKey Code = "INVALID_START_KEY"
	ErrCodeDuplicateKey    Code = "DUPLICATE_KEY"
	ErrCodeNotAdjacent     Code = "NOT_ADJACENT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeUnknownCell     Code = "UNKNOWN_CELL"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// sentinelCodes maps core sentinel errors to codes, most specific first.
var sentinelCodes = []struct {
	err  error
	code Code
}{
	{maze.ErrInvalidStartKey, ErrCodeInvalidStartKey},
	{grid.ErrDuplicateKey, ErrCodeDuplicateKey},
	{grid.ErrUnknownCell, ErrCodeUnknownCell},
	{grid.ErrNotAdjacent, ErrCodeNotAdjacent},
	{grid.ErrInvalidDimensions, ErrCodeInvalidInput},
	{grid.ErrInvalidKey, ErrCodeInvalidKey},
}

// FromGraph converts a grid or maze error into an *Error. Errors that
// already carry a code are returned unchanged; unknown errors become
// INTERNAL_ERROR. FromGraph(nil) returns nil.
func FromGraph(err error) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return Wrap(sc.code, err, "%s", sc.err.Error())
		}
	}
	return Wrap(ErrCodeInternal, err, "unexpected error")
}

// HTTPStatus returns the HTTP status code for an error code.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidKey,
		ErrCodeInvalidStartKey, ErrCodeNotAdjacent:
		return http.StatusBadRequest
	case ErrCodeDuplicateKey:
		return http.StatusConflict
	case ErrCodeNotFound, ErrCodeUnknownCell, ErrCodeSessionNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
