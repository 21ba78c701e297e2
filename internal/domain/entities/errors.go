package entities

import "fmt"

// ValidationError covers user-correctable input problems: empty files,
// unreadable streams, prefixes that are too short. Maps to 4xx.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error with a formatted reason.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UploadFailedError reports an object-store transfer failure after
// validation passed. The client may retry the whole upload. Maps to 5xx.
type UploadFailedError struct {
	Stage string
	Err   error
}

func (e *UploadFailedError) Error() string {
	return fmt.Sprintf("upload failed during %s: %v", e.Stage, e.Err)
}

func (e *UploadFailedError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a metadata-store failure that is not a duplicate
// race (duplicate races are recovered internally). Maps to 5xx.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("metadata %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
