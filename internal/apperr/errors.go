// Where: internal/apperr/errors.go
// What: Error taxonomy shared by the put/get/notify functions.
// Why: Let handlers classify failures with errors.Is without string matching.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput marks a parsed artifact that lacks a required field.
	ErrMalformedInput = errors.New("malformed input")
	// ErrNotFound marks an expected artifact that is absent.
	ErrNotFound = errors.New("not found")
	// ErrUpstreamUnavailable marks a failed call to S3, DynamoDB or Lambda.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrDuplicateWrite marks a conditional write that lost to an existing record.
	// Callers treat it as success.
	ErrDuplicateWrite = errors.New("duplicate write")
)

// Malformed returns an ErrMalformedInput with context.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound with context.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Upstream wraps cause as ErrUpstreamUnavailable, keeping both in the chain.
func Upstream(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, op, cause)
}

// IsFatal reports whether err should abort the invocation.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrDuplicateWrite)
}
