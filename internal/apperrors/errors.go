package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a domain error so the HTTP boundary can map it to a status
// code without string matching.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindTokenExpired
	KindTokenMalformed
	KindTokenNotYetValid
	KindForbidden
	KindNotFound
	KindConflict
	KindInsufficientStock
)

// Code returns the machine-readable code sent to clients. Token kinds get
// distinct codes so clients can branch refresh-vs-reauthenticate.
func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_FAILED"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindTokenExpired:
		return "TOKEN_EXPIRED"
	case KindTokenMalformed:
		return "TOKEN_MALFORMED"
	case KindTokenNotYetValid:
		return "TOKEN_NOT_YET_VALID"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	default:
		return "INTERNAL_ERROR"
	}
}

// StatusCode maps a kind to its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindInsufficientStock:
		return fiber.StatusBadRequest
	case KindUnauthenticated, KindTokenExpired, KindTokenMalformed, KindTokenNotYetValid:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Error is an operational error whose message is safe to show to clients.
// Anything that is not an *Error collapses to a generic 500 at the boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an operational error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an operational error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and client-safe message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation is shorthand for New(KindValidation, msg).
func Validation(message string) *Error { return New(KindValidation, message) }

// NotFound is shorthand for New(KindNotFound, msg).
func NotFound(message string) *Error { return New(KindNotFound, message) }

// KindOf extracts the kind from err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
