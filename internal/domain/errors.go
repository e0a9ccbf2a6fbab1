package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer.
var (
	ErrDuplicateID = fmt.Errorf("duplicate message id")
	ErrNotFound    = fmt.Errorf("message not found")
	ErrNoHistory   = fmt.Errorf("no conversation history")
	ErrAuthInvalid = fmt.Errorf("authentication failed")
	ErrRateLimit   = fmt.Errorf("rate limit exceeded")
	ErrUnavailable = fmt.Errorf("service unavailable")
	ErrBusy        = fmt.Errorf("send already in flight")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g., "Transcript.Append")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// UserMessager is implemented by errors that carry a human-readable message
// suitable for the error banner (e.g. the transport's APIError, which lifts
// it from the server's error envelope).
type UserMessager interface {
	UserMessage() string
}

// UserMessage extracts a banner-ready message from err, walking the wrap
// chain, or returns fallback when no error in the chain offers one.
func UserMessage(err error, fallback string) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if um, ok := e.(UserMessager); ok {
			if msg := um.UserMessage(); msg != "" {
				return msg
			}
		}
	}
	return fallback
}
