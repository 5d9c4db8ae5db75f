// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Engine defines the interface for container operations.
type Engine interface {
	// Name returns the engine name (docker or podman)
	Name() string
	// Available checks if the engine is available on the system
	Available() bool
	// Version returns the engine version
	Version(ctx context.Context) (string, error)
	// Exec runs an engine CLI command and returns its combined output. When
	// the command exits non-zero, the output carries a trailing " RC=<code>"
	// marker so callers can report the exit status alongside the output.
	Exec(ctx context.Context, args ...string) (string, error)
}

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// BaseCLIEngine holds the pieces shared by CLI-backed engines.
type BaseCLIEngine struct {
	binaryPath  string
	execCommand ExecCommandFunc
}

// BaseCLIEngineOption configures a BaseCLIEngine.
type BaseCLIEngineOption func(*BaseCLIEngine)

// WithExecCommand injects a command factory, for tests.
func WithExecCommand(f ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) { e.execCommand = f }
}

// NewBaseCLIEngine creates a base engine around a CLI binary path. An empty
// path means the binary was not found; Available reports false.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BinaryPath returns the resolved CLI binary path.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// CreateCommand builds an exec.Cmd for the engine CLI.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// Exec runs an engine CLI command and returns its combined output. A
// non-zero exit appends " RC=<code>" to the output and returns an error; the
// output is still returned so callers can log what the command printed.
func (e *BaseCLIEngine) Exec(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output += fmt.Sprintf(" RC=%d", exitErr.ExitCode())
		}
		return output, err
	}
	return output, nil
}
