// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Cryptographic failures carry a stable code
// that callers and operators can alert on without parsing messages.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a stable error category. Codes never change once published;
// monitoring and caller retry policies key off them.
type Code string

const (
	// CodeInvalidInput marks malformed input, such as a payload missing
	// required fields or carrying a wrong-sized nonce or tag.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeAuthenticationFailed marks an AEAD tag verification failure:
	// the ciphertext, nonce, tag, or context was tampered with or corrupted.
	// Permanent; callers must never retry.
	CodeAuthenticationFailed Code = "AUTHENTICATION_FAILED"

	// CodeMissingKey marks a payload referencing a key version that is not
	// present in the key table.
	CodeMissingKey Code = "MISSING_KEY"

	// CodeKeyStoreUnavailable marks a fatal I/O failure loading or persisting
	// key material. The affected operation fails closed.
	CodeKeyStoreUnavailable Code = "KEY_STORE_UNAVAILABLE"

	// CodeInternal is the fallback for errors without an explicit code.
	CodeInternal Code = "INTERNAL"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates a required external collaborator cannot be reached.
	ErrUnavailable = errors.New("unavailable")
)

// Error is a domain error carrying a stable code and a human-readable message.
type Error struct {
	code    Code
	message string
}

// NewCoded creates a new coded error with the given stable code and message.
func NewCoded(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	return e.message
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// CodeOf extracts the stable code from an error chain.
// Returns CodeInternal when no coded error is present.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeInternal
}

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
