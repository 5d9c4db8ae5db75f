// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"featctl/internal/config"
	"featctl/internal/conflict"
)

const (
	// containerExecTimeout bounds one feature install inside a container.
	containerExecTimeout = 600 * time.Second

	// devModeRepoEnv points the in-container feature utility at the local
	// artifact cache a development-mode container mounts.
	devModeRepoEnv = "FEATURE_LOCAL_REPO=/devmode-maven-cache"

	// rcMarker is appended to engine output on a non-zero exit.
	rcMarker = " RC="
)

// InstallOnContainer installs the features inside the configured container
// by running the runtime's own feature-install utility there. The kernel is
// never loaded on this path. Install failures inside the container are
// logged, not returned: the container keeps running and the caller's build
// proceeds against whatever features it already has.
func (i *Installer) InstallOnContainer(ctx context.Context, features []string, acceptLicense bool, verify config.VerifyOption) error {
	if len(features) == 0 {
		slog.Debug("skipping feature installation on container since no features were specified", "container", i.containerName)
		return nil
	}

	slog.Info("installing features on container", "features", features, "container", i.containerName)

	args := []string{"exec", "-e", devModeRepoEnv, i.containerName, "featureUtility", "installFeature"}
	args = append(args, features...)
	if acceptLicense {
		args = append(args, "--acceptLicense")
	}
	if verify != "" {
		args = append(args, "--verify="+string(verify))
	}

	ctx, cancel := context.WithTimeout(ctx, containerExecTimeout)
	defer cancel()

	out, _ := i.engine.Exec(ctx, args...)
	if !strings.Contains(out, rcMarker) {
		slog.Debug("feature installation output", "output", out)
		return nil
	}

	switch {
	case conflict.IsAlreadyInstalled(out):
		// The features are already installed.
		slog.Debug(out)
	case conflict.IsConflict(out):
		slog.Error(strings.TrimSuffix(conflict.MessagePrefix, ": "), "features", features, "output", out)
	default:
		slog.Error("an error occurred while installing features", "output", out)
	}
	return nil
}
