// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalRepository resolves artifacts against a Maven-layout directory tree
// (typically ~/.m2/repository). It performs no network access: an artifact
// that is not already cached is an error. The CLI uses it directly; build
// tool plugins substitute their own resolver-backed implementation.
type LocalRepository struct {
	// Root is the repository root directory.
	Root string
}

// NewLocalRepository creates a LocalRepository rooted at dir.
func NewLocalRepository(dir string) *LocalRepository {
	return &LocalRepository{Root: dir}
}

// DownloadArtifact implements Repository by looking up the artifact in the
// local Maven layout: group/artifact/version/artifact-version.type.
func (r *LocalRepository) DownloadArtifact(ctx context.Context, groupID, artifactID, typ, version string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := r.artifactPath(groupID, artifactID, typ, version)
	if _, err := os.Stat(path); err != nil {
		return "", &InvalidArtifactError{Coordinate: Coordinate{GroupID: groupID, ArtifactID: artifactID, Type: typ, Version: version}, Cause: err}
	}
	return path, nil
}

// DownloadSignature implements Repository. The signature is copied next to
// the feature archive so signature verification can locate it by filename.
func (r *LocalRepository) DownloadSignature(ctx context.Context, esaPath, groupID, artifactID, typ, version string) (string, error) {
	src, err := r.DownloadArtifact(ctx, groupID, artifactID, typ, version)
	if err != nil {
		return "", err
	}
	dst := strings.TrimSuffix(esaPath, filepath.Ext(esaPath)) + "." + typ
	if dst == src {
		return src, nil
	}
	if err := copyFile(src, dst); err != nil {
		return "", &InvalidArtifactError{Coordinate: Coordinate{GroupID: groupID, ArtifactID: artifactID, Type: typ, Version: version}, Cause: err}
	}
	return dst, nil
}

func (r *LocalRepository) artifactPath(groupID, artifactID, typ, version string) string {
	groupPath := filepath.Join(strings.Split(groupID, ".")...)
	name := artifactID + "-" + version + "." + typ
	return filepath.Join(r.Root, groupPath, artifactID, version, name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// InvalidArtifactError reports an artifact that could not be retrieved.
type InvalidArtifactError struct {
	Coordinate Coordinate
	Cause      error
}

// Error implements the error interface.
func (e *InvalidArtifactError) Error() string {
	return "artifact " + e.Coordinate.String() + " could not be retrieved: " + e.Cause.Error()
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *InvalidArtifactError) Unwrap() error { return e.Cause }
