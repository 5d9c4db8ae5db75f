// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"featctl/internal/container"
	"featctl/internal/installer"
	"featctl/internal/repository"

	"github.com/spf13/cobra"
)

var (
	installAcceptLicense bool
	installPlatforms     []string
	installESAs          []string
	installJSONs         []string
	installDirFlag       string
	installBuildDir      string
	installTo            string
	installVerify        string
	installContainer     string
	installMavenCache    string

	installCmd = &cobra.Command{
		Use:   "install <feature>...",
		Short: "Resolve and install features into the runtime",
		Long: `Resolve the requested features against the runtime's feature catalogs,
download the resulting archives from the local artifact cache, verify their
signatures, and install them.

Features may be given as short names (mpHealth-4.0), versionless names
combined with --platform (health), or extension-qualified names
(myext:customFeature-1.0). When --container names a running
development-mode container, the whole installation runs inside it instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: runInstall,
	}
)

func init() {
	flags := installCmd.Flags()
	flags.BoolVar(&installAcceptLicense, "accept-license", false, "accept the feature license terms")
	flags.StringSliceVar(&installPlatforms, "platform", nil, "platform version for versionless features (repeatable)")
	flags.StringSliceVar(&installESAs, "esa", nil, "local feature archive to install (repeatable)")
	flags.StringSliceVar(&installJSONs, "additional-json", nil, "extra feature-catalog coordinates groupId:artifactId:version (repeatable)")
	flags.StringVar(&installDirFlag, "install-dir", "", "runtime installation directory")
	flags.StringVar(&installBuildDir, "build-dir", "", "build working directory")
	flags.StringVar(&installTo, "to", "", "target product extension (default usr)")
	flags.StringVar(&installVerify, "verify", "", "signature verification mode: enforce, warn, skip, all")
	flags.StringVar(&installContainer, "container", "", "run the installation inside this container")
	flags.StringVar(&installMavenCache, "maven-cache", "", "artifact cache directory (default ~/.m2/repository)")
}

func runInstall(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	opts, err := buildInstallOptions(cmd)
	if err != nil {
		renderFailure(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	if len(args) == 0 && len(opts.PluginESAs) == 0 {
		return fmt.Errorf("no features requested: pass feature names or --esa archives")
	}

	inst, err := installer.New(cmd.Context(), opts)
	if err != nil {
		renderFailure(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	if err := inst.InstallFeatures(cmd.Context(), installAcceptLicense, args, installPlatforms); err != nil {
		renderFailure(stderr, err)
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓")+" Features installed")
	return nil
}

// buildInstallOptions merges flag values over the loaded configuration.
// A flag only overrides its config counterpart when it was set on the
// command line.
func buildInstallOptions(cmd *cobra.Command) (installer.Options, error) {
	opts := installer.Options{
		InstallDir:      flagOr(cmd, "install-dir", installDirFlag, cfg.InstallDir),
		BuildDir:        flagOr(cmd, "build-dir", installBuildDir, cfg.BuildDir),
		From:            cfg.From,
		To:              flagOr(cmd, "to", installTo, cfg.To),
		Verify:          flagOr(cmd, "verify", installVerify, cfg.Verify),
		ContainerName:   flagOr(cmd, "container", installContainer, cfg.ContainerName),
		PluginESAs:      installESAs,
		AdditionalJSONs: installJSONs,
		PublicKeys:      cfg.PublicKeys,
	}
	if !cmd.Flags().Changed("esa") && len(cfg.ESAs) > 0 {
		opts.PluginESAs = cfg.ESAs
	}
	if !cmd.Flags().Changed("additional-json") && len(cfg.AdditionalJSONs) > 0 {
		opts.AdditionalJSONs = cfg.AdditionalJSONs
	}

	cacheDir := installMavenCache
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return installer.Options{}, fmt.Errorf("failed to locate the artifact cache: %w", err)
		}
		cacheDir = filepath.Join(home, ".m2", "repository")
	}
	opts.Repo = repository.NewLocalRepository(cacheDir)

	if opts.ContainerName != "" {
		engine, err := container.NewEngine(container.EngineType(cfg.ContainerEngine))
		if err != nil {
			return installer.Options{}, err
		}
		opts.Engine = engine
	}

	return opts, nil
}

// flagOr returns the flag value when it was set on the command line, the
// config value otherwise.
func flagOr(cmd *cobra.Command, name, flagValue, cfgValue string) string {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	if cfgValue != "" {
		return cfgValue
	}
	return flagValue
}
