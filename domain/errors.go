package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure independently of the layer that produced it.
type ErrorCode string

const (
	// ErrCodeInvalid marks input rejected locally before any network call.
	ErrCodeInvalid ErrorCode = "INVALID"
	// ErrCodeRejected marks a request the server processed and declined.
	ErrCodeRejected ErrorCode = "REJECTED"
	// ErrCodeTransport marks a request that never produced an authoritative answer.
	ErrCodeTransport ErrorCode = "TRANSPORT"
	// ErrCodeUnauthorized marks an authenticated request refused by the server;
	// it always triggers local session teardown.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInternal is the fallback for unexpected local failures.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrSessionInvalid = NewError(ErrCodeUnauthorized, "session is no longer valid")
	ErrNoSession      = NewError(ErrCodeUnauthorized, "not logged in")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Validation builds a locally-detected input error.
func Validation(message string) *Error {
	return NewError(ErrCodeInvalid, message)
}

// Rejection builds an error for a request the server declined, carrying the
// server's human-readable text verbatim.
func Rejection(message string) *Error {
	return NewError(ErrCodeRejected, message)
}

// Transport wraps a failure that prevented a request from completing.
func Transport(message string, err error) *Error {
	return WrapError(ErrCodeTransport, message, err)
}
