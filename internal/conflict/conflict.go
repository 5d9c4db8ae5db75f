// SPDX-License-Identifier: MPL-2.0

// Package conflict classifies resolver and runtime error text into known
// feature-conflict categories. The runtime reports conflicts with fixed
// message codes; both the local kernel path and the container path use the
// same classification to decide whether an error should be re-wrapped with
// a conflict-specific prefix or surfaced verbatim.
package conflict

import (
	"fmt"
	"regexp"
	"strings"
)

// Code identifies a known conflict error category.
type Code string

const (
	// GenericConflict is a plain feature conflict.
	GenericConflict Code = "CWWKF0033E"
	// IncompatibleSingleton indicates two incompatible singleton features.
	IncompatibleSingleton Code = "CWWKF1405E"
	// MissingMultipleDependent indicates a missing dependency shared by
	// multiple requested features.
	MissingMultipleDependent Code = "CWWKF1385E"
	// SameModelConflict indicates conflicting features of the same
	// programming model.
	SameModelConflict Code = "CWWKF0043E"
	// DiffModelConflict indicates conflicting features of different
	// programming models.
	DiffModelConflict Code = "CWWKF0044E"
	// SameIndirectModelConflict indicates an indirect conflict within the
	// same programming model.
	SameIndirectModelConflict Code = "CWWKF0047E"

	// AlreadyInstalledCode is the informational code the runtime emits when
	// every requested feature is already installed. It short-circuits to
	// success even inside otherwise failed output.
	AlreadyInstalledCode = "CWWKF1250I"

	// MessagePrefix is prepended to conflict-classified errors together
	// with the requested feature list.
	MessagePrefix = "A feature conflict error occurred while installing features: "
)

// codes holds every conflict category in classification order.
var codes = []Code{
	GenericConflict,
	IncompatibleSingleton,
	MissingMultipleDependent,
	SameModelConflict,
	DiffModelConflict,
	SameIndirectModelConflict,
}

var anyConflict = buildPattern()

func buildPattern() *regexp.Regexp {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = string(c) + ".*"
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// IsConflict reports whether the text contains any known conflict code.
func IsConflict(text string) bool {
	return anyConflict.MatchString(text)
}

// Classify returns the first conflict category whose code appears in the
// text, and whether any matched.
func Classify(text string) (Code, bool) {
	for _, c := range codes {
		if strings.Contains(text, string(c)) {
			return c, true
		}
	}
	return "", false
}

// IsAlreadyInstalled reports whether the text carries the informational
// "features already installed" code.
func IsAlreadyInstalled(text string) bool {
	return strings.Contains(text, AlreadyInstalledCode)
}

// Error is the distinguished execution error for conflict-classified
// resolver failures. It carries the requested feature list so the user can
// see which request triggered the conflict.
type Error struct {
	Features []string
	Message  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s%v: %s", MessagePrefix, e.Features, e.Message)
}
