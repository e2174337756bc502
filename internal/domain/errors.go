package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError blocks an action before any write happens. The UI
// shows Reason inline next to the offending input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PreconditionError is a backend-state rejection: the action was well
// formed but the current state forbids it (item already loaned, loan
// still open on delete, lease ended).
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition: " + e.Reason
}

func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// SequenceError reports a multi-step operation that failed partway.
// There is no cross-call transaction, so completed steps stay applied;
// the operator is told which step failed and what already happened.
type SequenceError struct {
	Step      string
	Completed []string
	Err       error
}

func (e *SequenceError) Error() string {
	if len(e.Completed) == 0 {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q failed after %v completed: %v", e.Step, e.Completed, e.Err)
}

func (e *SequenceError) Unwrap() error {
	return e.Err
}
