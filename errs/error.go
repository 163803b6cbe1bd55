// Package errs gives chainnode a single structured error type, adapted from
// the teacher's errors.Error (error code + message + wrapped error) with the
// gRPC-status translation dropped: chainnode exposes no gRPC surface.
package errs

import (
	"errors"
	"fmt"
)

// ERR enumerates the error kinds spec.md §7 lists.
type ERR int

const (
	ERR_UNKNOWN ERR = iota
	ERR_MALFORMED_MESSAGE
	ERR_INVALID_SIGNATURE
	ERR_INVALID_HASH
	ERR_NONCE_MISMATCH
	ERR_INSUFFICIENT_BALANCE
	ERR_DUPLICATE_TX
	ERR_PEER_IO
	ERR_STORAGE
	ERR_INVARIANT
	ERR_NOT_FOUND
)

func (c ERR) String() string {
	switch c {
	case ERR_MALFORMED_MESSAGE:
		return "MALFORMED_MESSAGE"
	case ERR_INVALID_SIGNATURE:
		return "INVALID_SIGNATURE"
	case ERR_INVALID_HASH:
		return "INVALID_HASH"
	case ERR_NONCE_MISMATCH:
		return "NONCE_MISMATCH"
	case ERR_INSUFFICIENT_BALANCE:
		return "INSUFFICIENT_BALANCE"
	case ERR_DUPLICATE_TX:
		return "DUPLICATE_TX"
	case ERR_PEER_IO:
		return "PEER_IO"
	case ERR_STORAGE:
		return "STORAGE"
	case ERR_INVARIANT:
		return "INVARIANT"
	case ERR_NOT_FOUND:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

// Error is chainnode's structured error: a stable code plus a human message
// and, optionally, a wrapped cause.
type Error struct {
	Code       ERR
	Message    string
	WrappedErr error
}

func New(code ERR, message string, wrapped ...error) *Error {
	e := &Error{Code: code, Message: message}
	if len(wrapped) > 0 {
		e.WrappedErr = wrapped[0]
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.WrappedErr == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.WrappedErr)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.WrappedErr
}

// Is reports whether target carries the same error code.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}

	return false
}

// CodeOf extracts the ERR code from err, or ERR_UNKNOWN if err isn't an *Error.
func CodeOf(err error) ERR {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ERR_UNKNOWN
}
