// SPDX-License-Identifier: MPL-2.0

// Package repository defines the artifact-repository boundary: coordinates
// identifying downloadable units and the narrow interface the orchestration
// engine uses to fetch them. Actual download and caching live behind the
// Repository interface; the build-tool plugin hosting the engine supplies
// the implementation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCoordinate is the sentinel error wrapped by InvalidCoordinateError.
var ErrInvalidCoordinate = errors.New("invalid artifact coordinate")

type (
	// Coordinate identifies a downloadable unit in the artifact repository.
	// Version may be a literal version or a half-open range "[low, high)".
	Coordinate struct {
		GroupID    string
		ArtifactID string
		Type       string
		Version    string
	}

	// InvalidCoordinateError is returned when a coordinate string does not
	// have the groupId:artifactId:version shape.
	InvalidCoordinateError struct {
		Value string
	}

	// Repository downloads artifacts, or retrieves them from a local cache
	// when already present. Both methods return the local path of the
	// fetched file.
	Repository interface {
		// DownloadArtifact fetches the artifact for the given coordinates.
		DownloadArtifact(ctx context.Context, groupID, artifactID, typ, version string) (string, error)

		// DownloadSignature fetches the detached signature for a previously
		// downloaded feature archive. Implementations place the signature
		// next to the archive so the verifier can find it.
		DownloadSignature(ctx context.Context, esaPath, groupID, artifactID, typ, version string) (string, error)
	}
)

// Error implements the error interface.
func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid artifact coordinate %q (expected groupId:artifactId:version)", e.Value)
}

// Unwrap returns ErrInvalidCoordinate so callers can use errors.Is for programmatic detection.
func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// ParseCoordinate splits a "groupId:artifactId:version" string. The Type
// field is left empty; callers fill it per download (esa, json, jar, ...).
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Coordinate{}, &InvalidCoordinateError{Value: s}
	}
	return Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}, nil
}

// String renders the coordinate in groupId:artifactId:version form.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}

// HalfOpenRange builds the "[low, high)" version-range literal the
// repository layer understands: low inclusive, high exclusive.
func HalfOpenRange(low, high string) string {
	return fmt.Sprintf("[%s, %s)", low, high)
}
