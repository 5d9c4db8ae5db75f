// SPDX-License-Identifier: MPL-2.0

package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// setupLogging installs a styled handler as the process-wide slog default.
// All internal packages log through slog; the handler decides rendering.
func setupLogging(verboseMode bool) {
	level := log.InfoLevel
	if verboseMode {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
	slog.SetDefault(slog.New(logger))
}
