// SPDX-License-Identifier: MPL-2.0

// Package version implements ordering of dotted product version strings and
// derivation of the next product version. Runtime versions look like
// "24.0.0.8": period-separated segments, usually numeric, occasionally
// carrying a textual qualifier (e.g. "24.0.0.8-beta").
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrVersionFormat is the sentinel error wrapped by FormatError.
var ErrVersionFormat = errors.New("invalid product version format")

type (
	// FormatError is returned when a product version string cannot be
	// split into the expected period-separated segments.
	FormatError struct {
		Version string
		Reason  string
	}
)

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("product version %q is not in the expected format: %s", e.Version, e.Reason)
}

// Unwrap returns ErrVersionFormat so callers can use errors.Is for programmatic detection.
func (e *FormatError) Unwrap() error { return ErrVersionFormat }

// Compare orders two dotted version strings component-wise. Numeric
// components compare as integers; if either side of a component pair is
// non-numeric, that pair compares lexicographically. When the common prefix
// is equal, the version with fewer components sorts first. The empty string
// stands for an absent version and sorts before any non-empty version; two
// empty strings are equal.
func Compare(v1, v2 string) int {
	switch {
	case v1 == "" && v2 == "":
		return 0
	case v1 == "":
		return -1
	case v2 == "":
		return 1
	}

	components1 := strings.Split(v1, ".")
	components2 := strings.Split(v2, ".")
	for i := 0; i < len(components1) && i < len(components2); i++ {
		if c := compareComponent(components1[i], components2[i]); c != 0 {
			return c
		}
	}
	return len(components1) - len(components2)
}

// AtLeast reports whether v sorts at or above minimum.
func AtLeast(v, minimum string) bool {
	return Compare(v, minimum) >= 0
}

// compareComponent compares a single version segment pair: integers when
// both sides parse as integers, plain string ordering otherwise.
func compareComponent(c1, c2 string) int {
	n1, err1 := strconv.Atoi(c1)
	n2, err2 := strconv.Atoi(c2)
	if err1 == nil && err2 == nil {
		switch {
		case n1 < n2:
			return -1
		case n1 > n2:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(c1, c2)
}

// NextProductVersion increments the final period-separated segment of a
// product version, e.g. "24.0.0.8" -> "24.0.0.9". It is used to build the
// exclusive upper bound of an override-module version range. The version
// must contain at least one period and its final segment must be an integer.
func NextProductVersion(v string) (string, error) {
	idx := strings.LastIndex(v, ".")
	if idx < 0 {
		return "", &FormatError{Version: v, Reason: "it must have period separated version segments"}
	}
	last, err := strconv.Atoi(v[idx+1:])
	if err != nil {
		return "", &FormatError{Version: v, Reason: "its last segment is expected to be an integer"}
	}
	return v[:idx+1] + strconv.Itoa(last+1), nil
}
