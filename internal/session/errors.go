package session

import (
	"errors"
	"fmt"
)

// AuthError describes a failed authentication operation.
type AuthError struct {
	// Op names the failed operation.
	Op string
	// Credential is true when the remote service rejected the credentials,
	// false when the failure was at the transport level.
	Credential bool
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	reason := "transport failure"
	if e.Credential {
		reason = "credentials rejected"
	}

	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, reason)
	}

	return fmt.Sprintf("%s: %s: %v", e.Op, reason, e.Err)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Static error definitions for better error handling.
var (
	// ErrLoginRejected indicates the API rejected the supplied credentials.
	ErrLoginRejected = errors.New("login rejected")
	// ErrNoSession indicates no persisted session exists.
	ErrNoSession = errors.New("no session")
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrUnexpectedQRCode indicates the QR endpoint returned an unknown status code.
	ErrUnexpectedQRCode = errors.New("unexpected QR status code")
)
