// Package apperr defines the error taxonomy shared across the service.
// Nothing here is process-fatal: the worst case is a notification not
// shown or a stale ranking until the next snapshot.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing caller input.
	// Surfaced inline, never fatal.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks a missing location or notification permission.
	// Surfaced as an actionable prompt; the operation is aborted.
	ErrPermission = errors.New("permission denied")

	// ErrTransientBackend marks a store read/write failure. Logged, the
	// caller sees a short-lived error; not retried except where a
	// periodic tick naturally re-attempts.
	ErrTransientBackend = errors.New("transient backend error")

	// ErrMalformedPayload marks an inbound alert payload missing
	// required fields. Dropped and logged, never surfaced to the rider.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Validationf wraps a formatted message in ErrValidation
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// Permissionf wraps a formatted message in ErrPermission
func Permissionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrPermission}, args...)...)
}

// Transientf wraps a formatted message in ErrTransientBackend
func Transientf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrTransientBackend}, args...)...)
}

// Malformedf wraps a formatted message in ErrMalformedPayload
func Malformedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrMalformedPayload}, args...)...)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsPermission reports whether err is a permission error
func IsPermission(err error) bool { return errors.Is(err, ErrPermission) }

// IsTransient reports whether err is a transient backend error
func IsTransient(err error) bool { return errors.Is(err, ErrTransientBackend) }

// IsMalformed reports whether err is a malformed payload error
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformedPayload) }
