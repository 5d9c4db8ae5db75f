// SPDX-License-Identifier: MPL-2.0

package esa

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"featctl/internal/issue"
)

const (
	manifestSuffix = "subsystem.mf"
	librarySuffix  = ".jar"
)

// ManualInstaller extracts feature archives directly into the runtime's
// user extension, bypassing the resolver kernel. It performs no dependency
// resolution, no license check, and no signature verification; it exists
// only for runtimes too old to carry a kernel that understands user
// features. Manifest entries go to <ext>/lib/features, library entries to
// <ext>/lib.
type ManualInstaller struct {
	// InstallDir is the runtime installation directory.
	InstallDir string

	// UserExtensionDir overrides the default <InstallDir>/usr/extension.
	UserExtensionDir string

	// installed maps the lower-cased symbolic name of each manually placed
	// feature to its lower-cased short name ("" when the manifest declares
	// none).
	installed map[string]string
}

// NewManualInstaller creates a ManualInstaller for the given installation.
func NewManualInstaller(installDir, userExtensionDir string) *ManualInstaller {
	return &ManualInstaller{
		InstallDir:       installDir,
		UserExtensionDir: userExtensionDir,
		installed:        make(map[string]string),
	}
}

// Contains reports whether name (symbolic or short, any case) belongs to a
// feature this installer has already placed.
func (m *ManualInstaller) Contains(name string) bool {
	name = strings.ToLower(name)
	if _, ok := m.installed[name]; ok {
		return true
	}
	for _, short := range m.installed {
		if short == name {
			return true
		}
	}
	return false
}

// Installed returns the manually-installed feature map (lower-cased
// symbolic name to lower-cased short name).
func (m *ManualInstaller) Installed() map[string]string {
	return m.installed
}

// Install extracts each feature archive into the user extension. A feature
// whose manifest file already exists in the target is skipped with a notice
// rather than an error.
func (m *ManualInstaller) Install(esaPaths []string) error {
	extDir := m.UserExtensionDir
	if extDir == "" {
		extDir = filepath.Join(m.InstallDir, "usr", "extension")
	}
	libDir := filepath.Join(extDir, "lib")
	featuresDir := filepath.Join(libDir, "features")
	if err := os.MkdirAll(featuresDir, 0o755); err != nil {
		return issue.ExecutionWrap(err, "could not create the user extension directory %s", featuresDir)
	}

	for _, path := range esaPaths {
		slog.Debug("copying feature archive to runtime image", "esa", path)
		if err := m.installOne(path, libDir, featuresDir); err != nil {
			return err
		}
	}
	return nil
}

func (m *ManualInstaller) installOne(esaPath, libDir, featuresDir string) error {
	zr, err := zip.OpenReader(esaPath)
	if err != nil {
		return issue.ExecutionWrap(err, "could not open the feature archive %s", esaPath)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		name := strings.ToLower(entry.Name)
		switch {
		case strings.HasSuffix(name, manifestSuffix):
			symbolic, short, err := readSubsystemNames(entry)
			if err != nil {
				return issue.ExecutionWrap(err, "could not read the subsystem manifest in %s", esaPath)
			}
			m.installed[strings.ToLower(symbolic)] = strings.ToLower(short)

			target := filepath.Join(featuresDir, symbolic+".mf")
			if _, err := os.Stat(target); err == nil {
				slog.Info("the feature is already installed", "esa", esaPath)
				return nil
			}
			if err := copyEntry(entry, target); err != nil {
				return issue.ExecutionWrap(err, "could not copy the feature manifest from %s", esaPath)
			}
		case strings.HasSuffix(name, librarySuffix):
			target := filepath.Join(libDir, filepath.FromSlash(entry.Name))
			if err := copyEntry(entry, target); err != nil {
				return issue.ExecutionWrap(err, "could not copy a feature library from %s", esaPath)
			}
		}
	}
	return nil
}

func readSubsystemNames(entry *zip.File) (symbolic, short string, err error) {
	rc, err := entry.Open()
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	attrs, err := ParseManifest(rc)
	if err != nil {
		return "", "", err
	}
	return SymbolicName(attrs[SymbolicNameAttribute]), attrs[ShortNameAttribute], nil
}

func copyEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Sync()
}
