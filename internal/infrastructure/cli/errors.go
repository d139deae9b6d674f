package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/learnpath/internal/infrastructure/catalogapi"
	"github.com/felixgeelhaar/learnpath/internal/infrastructure/config"
	"github.com/felixgeelhaar/learnpath/pkg/application"
	"github.com/felixgeelhaar/learnpath/pkg/domain/library"
	"github.com/felixgeelhaar/learnpath/pkg/domain/planning"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var valErr *planning.ValidationError
	if errors.As(err, &valErr) {
		return NewCLIError(
			valErr.Error(),
			fmt.Sprintf("Fix the %s field and retry", valErr.Field),
			err,
		)
	}

	var serverErr *catalogapi.ServerError
	if errors.As(err, &serverErr) {
		return NewCLIError(
			"catalog request failed",
			"The catalog API returned an error; retry in a moment",
			err,
		)
	}

	switch {
	case errors.Is(err, planning.ErrTaskNotFound):
		return NewCLIError("task not found", "Run 'learnpath task list' to see task ids", err)
	case errors.Is(err, planning.ErrDuplicateTask):
		return NewCLIError("task already exists", "Pick another id or edit the existing task", err)
	case errors.Is(err, catalogapi.ErrNotFound):
		return NewCLIError("not found", "Check the id with 'learnpath tracks list' or 'learnpath resources list'", err)
	case errors.Is(err, library.ErrInvalidStatus):
		return NewCLIError("invalid status", "Use todo, doing or done", err)
	case errors.Is(err, application.ErrInvalidItem):
		return NewCLIError("invalid item", "Pass a track or resource id", err)
	case errors.Is(err, application.ErrStale):
		return NewCLIError("request superseded", "Retry the command", err)
	case errors.Is(err, config.ErrInvalidLogLevel):
		return NewCLIError("invalid log level", "Use debug, info, warn or error", err)
	}

	return err
}
