package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for task state transitions and lookups
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAmbiguousID    = errors.New("id prefix matches more than one task")
	ErrAlreadyRunning = errors.New("time tracking already running")
	ErrNotRunning     = errors.New("no time tracking running")
	ErrArchived       = errors.New("task is archived")
	ErrNotArchived    = errors.New("task is not archived")
	ErrInProgress     = errors.New("task is in progress")
)

// ValidationError reports malformed or missing user input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidStateError reports an operation that is not allowed in the task's current state.
// It wraps one of the sentinel errors above so callers can use errors.Is.
type InvalidStateError struct {
	TaskID string
	Op     string
	Err    error
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s task %s: %v", e.Op, ShortID(e.TaskID), e.Err)
}

func (e *InvalidStateError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure of the storage collaborator
type PersistenceError struct {
	Op   string // read, write, update, delete, delete-all
	Kind string // entity key
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInvalidState reports whether err is (or wraps) an InvalidStateError
func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
