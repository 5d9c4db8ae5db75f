// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

// VerifyOption selects how feature signatures are verified during install.
type VerifyOption string

const (
	// VerifyEnforce verifies signatures of repository features; a crypto
	// failure is fatal, a missing signature download is a warning.
	VerifyEnforce VerifyOption = "enforce"
	// VerifyWarn verifies signatures but downgrades download failures to
	// warnings, like enforce, while still failing on bad signatures.
	VerifyWarn VerifyOption = "warn"
	// VerifySkip disables signature verification entirely.
	VerifySkip VerifyOption = "skip"
	// VerifyAll verifies every feature, including user features; any
	// signature download failure is fatal.
	VerifyAll VerifyOption = "all"
)

// ErrInvalidVerifyOption is the sentinel error wrapped by InvalidVerifyOptionError.
var ErrInvalidVerifyOption = errors.New("invalid verify option")

// InvalidVerifyOptionError is returned when a verify value is not one of
// the supported options.
type InvalidVerifyOptionError struct {
	Value string
}

func (e *InvalidVerifyOptionError) Error() string {
	return fmt.Sprintf("invalid verify option %q (expected enforce, warn, skip, or all)", e.Value)
}

// Unwrap returns ErrInvalidVerifyOption so callers can use errors.Is for
// programmatic detection.
func (e *InvalidVerifyOptionError) Unwrap() error { return ErrInvalidVerifyOption }

// ParseVerifyOption canonicalizes and validates a verify value. Matching is
// case-insensitive; an empty value selects the default, enforce.
func ParseVerifyOption(s string) (VerifyOption, error) {
	switch VerifyOption(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return VerifyEnforce, nil
	case VerifyEnforce:
		return VerifyEnforce, nil
	case VerifyWarn:
		return VerifyWarn, nil
	case VerifySkip:
		return VerifySkip, nil
	case VerifyAll:
		return VerifyAll, nil
	default:
		return "", &InvalidVerifyOptionError{Value: s}
	}
}

// String returns the canonical lower-case form.
func (o VerifyOption) String() string { return string(o) }
