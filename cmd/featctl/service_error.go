// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"featctl/internal/config"
	"featctl/internal/conflict"
	"featctl/internal/container"
	"featctl/internal/issue"
)

// issueForError maps a failure to its issue catalog entry so the CLI can
// render the matching help card. Returns 0 when no entry applies.
func issueForError(err error) issue.Id {
	if errors.Is(err, config.ErrInvalidVerifyOption) {
		return issue.InvalidVerifyOptionId
	}

	var conflictErr *conflict.Error
	if errors.As(err, &conflictErr) {
		return issue.FeatureConflictId
	}

	var engineErr *container.ErrEngineNotAvailable
	if errors.As(err, &engineErr) {
		return issue.ContainerEngineNotFoundId
	}

	if errors.Is(err, issue.ErrScenario) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "kernel module"):
			return issue.KernelModuleNotFoundId
		case strings.Contains(msg, "feature JSONs"):
			return issue.ProductJsonNotFoundId
		}
	}

	return 0
}

// renderFailure prints the error followed by the matching issue catalog card,
// if one exists.
func renderFailure(stderr io.Writer, err error) {
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	id := issueForError(err)
	if id == 0 {
		return
	}
	entry := issue.ForId(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render("")
	if renderErr != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}
