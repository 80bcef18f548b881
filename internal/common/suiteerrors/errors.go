// Package suiteerrors contains generic errors returned by the suite commands.
// The command-line layer looks for the error types defined in this file to decide
// whether a failure was caused by bad input or by an external collaborator.
//
// If multiple errors occur in some function (e.g., several malformed summaries in one
// archive), that function should collect them into a multierror.Error from package
// github.com/hashicorp/go-multierror rather than stopping at the first one.
package suiteerrors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is a generic error to be returned on invalid argument.
// Message is optional and is omitted from the error message if not provided.
type ErrInvalidArgument struct {
	Name    string      // Name of the argument referred to, e.g., "collections"
	Value   interface{} // The invalid value that was provided
	Message string      // An optional message to include with the error message, e.g., explaining why the value is invalid
}

func (err *ErrInvalidArgument) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("value %q is invalid for argument %q", err.Value, err.Name)
	} else {
		return fmt.Sprintf("value %q is invalid for argument %q; %s", err.Value, err.Name, err.Message)
	}
}

// ErrNotFound is a generic error to be returned whenever some resource isn't found.
// Type and Message are optional and are omitted from the error message if not provided.
type ErrNotFound struct {
	Type    string // Resource type, e.g., "collection" or "archive"
	Value   string // Resource name, e.g., a path
	Message string
}

func (err *ErrNotFound) Error() (s string) {
	if err.Type != "" {
		s = fmt.Sprintf("resource %q of type %q does not exist", err.Value, err.Type)
	} else {
		s = fmt.Sprintf("resource %q does not exist", err.Value)
	}
	if err.Message != "" {
		return s + fmt.Sprintf("; %s", err.Message)
	} else {
		return s
	}
}

// ErrDispatch is returned when the external scheduler rejected a job, i.e., exited
// with a non-zero status or could not be started at all.
//
// ExitCode is -1 if the scheduler never produced an exit status.
type ErrDispatch struct {
	Args     []string
	ExitCode int
	Err      error
}

func (err *ErrDispatch) Error() string {
	cmd := strings.Join(err.Args, " ")
	if err.ExitCode >= 0 {
		return fmt.Sprintf("scheduler invocation %q exited with status %d", cmd, err.ExitCode)
	}
	return fmt.Sprintf("scheduler invocation %q failed: %s", cmd, err.Err)
}

func (err *ErrDispatch) Unwrap() error {
	return err.Err
}

// ErrMalformedSummary indicates that a job's result summary exists but can't be
// interpreted. It is reported per job and never aborts an aggregation.
type ErrMalformedSummary struct {
	JobId  string
	Reason string
}

func (err *ErrMalformedSummary) Error() string {
	return fmt.Sprintf("malformed summary for job %s: %s", err.JobId, err.Reason)
}

// IsUsageError returns true if the cause of err is a problem with the arguments
// supplied by the user.
func IsUsageError(err error) bool {
	{
		var e *ErrInvalidArgument
		if errors.As(err, &e) {
			return true
		}
	}
	{
		var e *ErrNotFound
		if errors.As(err, &e) {
			return true
		}
	}
	return false
}
