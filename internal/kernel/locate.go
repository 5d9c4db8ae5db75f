// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"archive/zip"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"featctl/internal/esa"
	"featctl/internal/issue"
	"featctl/internal/repository"
	"featctl/internal/version"
)

const (
	// OpenLibertyGroupID is the repository group that publishes the kernel
	// and resolver modules.
	OpenLibertyGroupID = "io.openliberty.features"
	// InstallMapArtifactID is the repository artifact id of the kernel module.
	InstallMapArtifactID = "install-map"
	// ResolverArtifactID is the repository artifact id of the override
	// resolver bundle.
	ResolverArtifactID = "repository-resolver"

	// modulePrefix and jarExt fix the on-disk naming of bundled kernel
	// modules: <prefix>_<version>.jar.
	modulePrefix = "com.ibm.ws.install.map"
	jarExt       = ".jar"
)

// Locator finds the kernel module for the installed runtime. A repository
// copy in the range [runtime version, next version) is preferred; otherwise
// the runtime's lib directory is scanned for the newest bundled module.
type Locator struct {
	Repo           repository.Repository
	InstallDir     string
	RuntimeVersion string // may be "" when the runtime version is unknown
}

// ModulePath returns the path of the kernel module to load. No module at
// all is an unsupported scenario: no install can proceed without one.
func (l *Locator) ModulePath(ctx context.Context) (string, error) {
	if l.RuntimeVersion != "" {
		if path := l.downloadOverrideJar(ctx, OpenLibertyGroupID, InstallMapArtifactID); path != "" {
			return path, nil
		}
	}
	if path := LatestModuleJar(filepath.Join(l.InstallDir, "lib")); path != "" {
		return path, nil
	}
	return "", issue.Scenario("install kernel module not found")
}

// OverrideBundleDescriptor fetches the resolver bundle override for the
// current runtime version and renders it as "<path>;<Bundle-SymbolicName>".
// An absent override is not an error; the kernel falls back to the
// runtime's bundled copy.
func (l *Locator) OverrideBundleDescriptor(ctx context.Context) (string, error) {
	if l.RuntimeVersion == "" {
		return "", nil
	}
	jarPath := l.downloadOverrideJar(ctx, OpenLibertyGroupID, ResolverArtifactID)
	if jarPath == "" {
		return "", nil
	}
	symbolicName, err := JarSymbolicName(jarPath)
	if err != nil {
		return "", err
	}
	if symbolicName == "" {
		return "", nil
	}
	return jarPath + ";" + symbolicName, nil
}

// downloadOverrideJar fetches the newest repository copy of an artifact in
// the half-open range [runtime version, next version). Any failure falls
// back to the runtime's bundled copy.
func (l *Locator) downloadOverrideJar(ctx context.Context, groupID, artifactID string) string {
	next, err := version.NextProductVersion(l.RuntimeVersion)
	if err != nil {
		slog.Debug("using module from the runtime directory", "artifact", artifactID, "error", err)
		return ""
	}
	path, err := l.Repo.DownloadArtifact(ctx, groupID, artifactID, "jar", repository.HalfOpenRange(l.RuntimeVersion, next))
	if err != nil {
		slog.Debug("using module from the runtime directory", "artifact", artifactID, "error", err)
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LatestModuleJar scans dir for kernel module jars and returns the path of
// the newest by embedded version token, or "" if none exist.
func LatestModuleJar(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var bestPath, bestVersion string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, modulePrefix) || !strings.HasSuffix(name, jarExt) {
			continue
		}
		v := moduleVersion(name)
		if bestPath == "" || version.Compare(bestVersion, v) < 0 {
			bestPath = filepath.Join(dir, name)
			bestVersion = v
		}
	}
	return bestPath
}

// moduleVersion extracts the version token from a module file name of the
// form <prefix>_<version>.jar, or "" when the name carries no token.
func moduleVersion(name string) string {
	start := len(modulePrefix) + 1 // skip the underscore after the prefix
	end := strings.LastIndex(name, jarExt)
	if start >= end {
		return ""
	}
	return name[start:end]
}

// JarSymbolicName reads the Bundle-SymbolicName attribute from a jar's
// manifest, or "" when the manifest declares none.
func JarSymbolicName(jarPath string) (string, error) {
	zr, err := zip.OpenReader(jarPath)
	if err != nil {
		return "", issue.ExecutionWrap(err, "could not load the jar %s", jarPath)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.Name != "META-INF/MANIFEST.MF" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", issue.ExecutionWrap(err, "could not load the jar %s", jarPath)
		}
		defer rc.Close()

		attrs, err := esa.ParseManifest(rc)
		if err != nil {
			return "", issue.ExecutionWrap(err, "could not read the manifest of %s", jarPath)
		}
		return esa.SymbolicName(attrs[esa.BundleSymbolicNameAttribute]), nil
	}
	return "", nil
}
