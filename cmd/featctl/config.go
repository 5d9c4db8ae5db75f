// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"featctl/internal/config"
	"featctl/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage featctl configuration",
	Long: `Manage featctl configuration.

Configuration is stored in:
  - Linux: ~/.config/featctl/config.yaml
  - macOS: ~/Library/Application Support/featctl/config.yaml
  - Windows: %APPDATA%\featctl\config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	loaded, resolvedPath, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		if entry := issue.ForId(issue.ConfigLoadFailedId); entry != nil {
			rendered, _ := entry.Render("")
			fmt.Fprint(os.Stderr, rendered)
		}
		return err
	}

	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(headerStyle.Render("Current Configuration"))
	fmt.Println()

	if resolvedPath != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("install_dir"), renderValue(valueStyle, loaded.InstallDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("build_dir"), renderValue(valueStyle, loaded.BuildDir))
	fmt.Printf("%s: %s\n", keyStyle.Render("to"), renderValue(valueStyle, loaded.To))
	fmt.Printf("%s: %s\n", keyStyle.Render("verify"), renderValue(valueStyle, loaded.Verify))
	fmt.Printf("%s: %s\n", keyStyle.Render("container_name"), renderValue(valueStyle, loaded.ContainerName))
	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), renderValue(valueStyle, loaded.ContainerEngine))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("esas"))
	if len(loaded.ESAs) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, path := range loaded.ESAs {
			fmt.Printf("  - %s\n", valueStyle.Render(path))
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("additional_jsons"))
	if len(loaded.AdditionalJSONs) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, coord := range loaded.AdditionalJSONs {
			fmt.Printf("  - %s\n", valueStyle.Render(coord))
		}
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("public_keys"))
	if len(loaded.PublicKeys) == 0 {
		fmt.Printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, key := range loaded.PublicKeys {
			fmt.Printf("  - %s (id: %s)\n", valueStyle.Render(key.URL), valueStyle.Render(key.ID))
		}
	}

	return nil
}

// renderValue styles a config value, substituting a muted placeholder for
// empty ones.
func renderValue(style lipgloss.Style, value string) string {
	if value == "" {
		return SubtitleStyle.Render("(not set)")
	}
	return style.Render(value)
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}
