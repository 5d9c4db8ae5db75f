// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"featctl/internal/issue"

	"github.com/spf13/cobra"
)

// issuesCmd lists every known failure class with its rendered help card, so
// users can browse remediation steps without first hitting the failure.
var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List known failure classes and their remediation steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		stdout := cmd.OutOrStdout()
		for _, entry := range issue.All() {
			rendered, err := entry.Render("")
			if err != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", entry.Id(), "error", err)
				continue
			}
			fmt.Fprint(stdout, rendered)
		}
		return nil
	},
}
