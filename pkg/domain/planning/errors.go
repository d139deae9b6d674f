package planning

import (
	"errors"
	"fmt"
)

// Domain errors for the study plan.
var (
	// ErrInvalidTask indicates a draft or edit failed validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrDuplicateTask indicates a task with the same id already exists.
	ErrDuplicateTask = errors.New("task id already exists")

	// ErrTaskNotFound indicates no task has the given id.
	ErrTaskNotFound = errors.New("task not found")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid task %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidTask.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidTask
}
