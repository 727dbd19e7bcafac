package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for failure categories that carry no extra detail. Callers
// match them with errors.Is.
var (
	// ErrCredentialsMissing means a required credential was absent from
	// configuration. Raised before any network call is made.
	ErrCredentialsMissing = errors.New("required credentials are not configured")

	// ErrCredentialsRejected means the remote service answered 401 or 403.
	ErrCredentialsRejected = errors.New("remote service rejected credentials")

	// ErrRemoteNotFound means a remote file endpoint answered 404. The granule
	// index endpoint is the one documented exception: there a 404 means "no
	// granules that day" and yields an empty list instead of this error.
	ErrRemoteNotFound = errors.New("remote resource not found")
)

// RemoteError is any other non-2xx response, or a response with no usable
// body. It wraps the status code and body text so callers can log or branch
// on them.
type RemoteError struct {
	Op     string // e.g. "laads index", "srtm download"
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.Status, e.Body)
}

// StageError is a tile-pipeline stage exiting non-zero. The remainder of that
// asset's pipeline is abandoned; other queued assets are unaffected.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// UnknownInterventionError aborts a whole simulation call when any selected
// id is absent from the registry.
type UnknownInterventionError struct {
	ID string
}

func (e *UnknownInterventionError) Error() string {
	return fmt.Sprintf("unknown intervention: %s", e.ID)
}

// ValidationError is malformed caller input, rejected before any computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named input field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
