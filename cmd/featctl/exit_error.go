// SPDX-License-Identifier: MPL-2.0

package main

import "fmt"

// ExitError carries a process exit code through the cobra error return. The
// CLI renders the failure itself before returning one, so commands that hand
// it back always silence cobra's own error printing.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
