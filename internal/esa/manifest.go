// SPDX-License-Identifier: MPL-2.0

// Package esa handles feature archives (ESAs): reading their subsystem
// manifests and, when the resolver kernel cannot be used, extracting them
// directly into the runtime's user extension.
package esa

import (
	"bufio"
	"io"
	"strings"
)

// Subsystem manifest attribute names.
const (
	SymbolicNameAttribute = "Subsystem-SymbolicName"
	ShortNameAttribute    = "IBM-ShortName"

	// BundleSymbolicNameAttribute names an OSGi bundle in a jar manifest.
	BundleSymbolicNameAttribute = "Bundle-SymbolicName"
)

// ParseManifest reads the main attributes of a jar-style manifest. Values
// wrapped across lines (continuation lines start with a single space) are
// joined. Parsing stops at the first empty line, which ends the main
// attribute section.
func ParseManifest(r io.Reader) (map[string]string, error) {
	attrs := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lastKey string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				attrs[lastKey] += line[1:]
			}
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		lastKey = strings.TrimSpace(key)
		attrs[lastKey] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}

// SymbolicName extracts the bare symbolic name from a manifest attribute
// value, dropping any directives after the first semicolon.
func SymbolicName(value string) string {
	name, _, _ := strings.Cut(value, ";")
	return strings.TrimSpace(name)
}
