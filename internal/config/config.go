// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"featctl/internal/issue"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "featctl"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "yaml"
	// EnvPrefix is the prefix of environment variable overrides
	// (FEATCTL_INSTALL_DIR and so on).
	EnvPrefix = "FEATCTL"
)

type (
	// Config is the full featctl configuration.
	Config struct {
		// InstallDir is the runtime installation directory (the wlp root).
		InstallDir string `mapstructure:"install_dir"`

		// BuildDir is the build working directory; downloaded catalogs and
		// editor caches live under it.
		BuildDir string `mapstructure:"build_dir"`

		// From is a single-directory repository override. Rejected by the
		// installer: the repository layer reads Maven-style configuration
		// instead.
		From string `mapstructure:"from"`

		// To is the product extension features are installed into when the
		// feature manifest does not name one.
		To string `mapstructure:"to"`

		// ESAs are local feature archive paths to install alongside
		// repository features.
		ESAs []string `mapstructure:"esas"`

		// AdditionalJSONs are extra feature-catalog coordinates
		// (groupId:artifactId:version) resolved next to the product catalogs.
		AdditionalJSONs []string `mapstructure:"additional_jsons"`

		// Verify selects the signature-verification mode.
		Verify string `mapstructure:"verify"`

		// ContainerName, when set, routes the whole install into a running
		// development-mode container of that name.
		ContainerName string `mapstructure:"container_name"`

		// ContainerEngine picks the engine CLI (docker or podman).
		ContainerEngine string `mapstructure:"container_engine"`

		// PublicKeys are user-supplied signature keys.
		PublicKeys []PublicKey `mapstructure:"public_keys"`
	}

	// PublicKey references a user-supplied signature key.
	PublicKey struct {
		ID  string `mapstructure:"id"`
		URL string `mapstructure:"url"`
	}

	// LoadOptions controls where Load looks for configuration.
	LoadOptions struct {
		// ConfigFilePath, when set, is used exclusively.
		ConfigFilePath string
		// ConfigDirPath overrides the platform config directory.
		ConfigDirPath string
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		To:              "usr",
		Verify:          string(VerifyEnforce),
		ContainerEngine: "docker",
	}
}

// ConfigDir returns the featctl configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration from the resolved config file, environment
// variables, and defaults, in ascending precedence of defaults < file < env.
// A missing config file is not an error; defaults apply. It returns the
// config and the path of the file actually loaded ("" when none was).
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("to", defaults.To)
	v.SetDefault("verify", defaults.Verify)
	v.SetDefault("container_engine", defaults.ContainerEngine)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about; bind the
	// scalar keys so env-only overrides survive Unmarshal.
	for _, key := range []string{
		"install_dir", "build_dir", "from", "to", "verify",
		"container_name", "container_engine",
	} {
		_ = v.BindEnv(key)
	}

	resolvedPath := ""

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.WrapWithContext(
				fmt.Errorf("config file not found: %s", opts.ConfigFilePath),
				"load configuration", opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable")
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", issue.WrapWithContext(err, "load configuration", opts.ConfigFilePath).
				WithSuggestion("Check that the file contains valid YAML syntax").
				WithSuggestion("Verify the configuration values match the expected schema")
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(cfgDir)
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", issue.WrapWithOperation(err, "load configuration").
					WithSuggestion("Check that the file contains valid YAML syntax")
			}
			// No config file found, use defaults.
		} else {
			resolvedPath = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := ParseVerifyOption(cfg.Verify); err != nil {
		return nil, "", issue.WrapWithOperation(err, "validate configuration").
			WithSuggestion("Set verify to one of: enforce, warn, skip, all")
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}
