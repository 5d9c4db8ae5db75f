// SPDX-License-Identifier: MPL-2.0

package product

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"featctl/internal/issue"
)

const (
	// validateTimeout bounds the runtime's self-validation command.
	validateTimeout = 300 * time.Second

	// errorMarker in productInfo output marks a validation failure.
	errorMarker = "[ERROR]"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Validator runs the runtime's productInfo command.
type Validator struct {
	// InstallDir is the runtime installation directory.
	InstallDir string

	execCommand ExecCommandFunc
}

// NewValidator creates a Validator for the given installation.
func NewValidator(installDir string, opts ...ValidatorOption) *Validator {
	v := &Validator{InstallDir: installDir, execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithExecCommand injects a command factory, for tests.
func WithExecCommand(f ExecCommandFunc) ValidatorOption {
	return func(v *Validator) { v.execCommand = f }
}

// Validate runs "productInfo validate" and fails if the output contains the
// error marker or if the command produced no output at all.
func (v *Validator) Validate(ctx context.Context) error {
	output, err := v.Run(ctx, "validate")
	if err != nil {
		return err
	}
	if strings.TrimSpace(output) == "" {
		return issue.Execution("could not perform product validation. The productInfo command returned with no output")
	}
	if strings.Contains(output, errorMarker) {
		return issue.Execution("%s", output)
	}
	slog.Info("product validation completed successfully")
	return nil
}

// Run executes the productInfo command with the given action and returns
// its output. The command is bounded by the validation timeout; a non-zero
// exit status is an error.
func (v *Validator) Run(ctx context.Context, action string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	name := filepath.Join(v.InstallDir, "bin", "productInfo")
	if runtime.GOOS == "windows" {
		name += ".bat"
	}

	var out bytes.Buffer
	cmd := v.execCommand(ctx, name, action)
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", issue.Execution("the productInfo %s command timed out", action)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", issue.Execution("productInfo exited with return code %d. The productInfo command run was `%s %s`", exitErr.ExitCode(), name, action)
		}
		return "", issue.ExecutionWrap(err, "could not run the productInfo command %s", name)
	}
	return out.String(), nil
}
