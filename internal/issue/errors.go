// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
)

var (
	// ErrScenario is the sentinel error wrapped by ScenarioError.
	ErrScenario = errors.New("unsupported installation scenario")
	// ErrExecution is the sentinel error wrapped by ExecutionError.
	ErrExecution = errors.New("installation failed")
)

type (
	// ScenarioError reports that the current installation scenario is not
	// supported. Nothing has been mutated when it is raised.
	ScenarioError struct {
		Reason string
		Cause  error
	}

	// ExecutionError reports a failure during an installation run. The
	// message is meant for the user; Cause preserves the underlying error
	// chain when one exists.
	ExecutionError struct {
		Message string
		Cause   error
	}
)

// Scenario creates a ScenarioError with the given reason.
func Scenario(reason string) *ScenarioError {
	return &ScenarioError{Reason: reason}
}

// Execution creates an ExecutionError with a formatted message.
func Execution(format string, args ...any) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...)}
}

// ExecutionWrap creates an ExecutionError wrapping a cause.
func ExecutionWrap(cause error, format string, args ...any) *ExecutionError {
	return &ExecutionError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *ScenarioError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

// Unwrap returns ErrScenario plus the cause so errors.Is works for both.
func (e *ScenarioError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrScenario, e.Cause}
	}
	return []error{ErrScenario}
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns ErrExecution plus the cause so errors.Is works for both.
func (e *ExecutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrExecution, e.Cause}
	}
	return []error{ErrExecution}
}
