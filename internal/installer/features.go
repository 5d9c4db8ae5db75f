// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"log/slog"
	"os"
	"regexp"
	"strings"

	"featctl/internal/issue"
	"featctl/internal/kernel"
)

// openSourceCoordinate matches repository coordinates of the open-source
// product namespace inside a feature catalog; group 1 is the artifact id.
var openSourceCoordinate = regexp.MustCompile(regexp.QuoteMeta(kernel.OpenLibertyGroupID) + `:([^:"]*):`)

// CombineToSet merges string collections case-insensitively, keeping the
// first occurrence of every value. Blank values are dropped with a warning
// instead of being passed on as feature names.
func CombineToSet(collections ...[]string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, collection := range collections {
		for _, value := range collection {
			lower := strings.ToLower(value)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			if strings.TrimSpace(value) == "" {
				slog.Warn("an empty feature was specified in a server configuration file. Ensure that the features are valid")
				continue
			}
			result = append(result, value)
		}
	}
	return result
}

// onlyOpenSourceFeatures reports whether every requested feature belongs to
// the open-source product namespace, determined by scanning the downloaded
// feature catalogs for that namespace's group id.
func (i *Installer) onlyOpenSourceFeatures(features []string) (bool, error) {
	available, err := openSourceFeatureSet(i.jsonPaths)
	if err != nil {
		return false, err
	}
	result := containsIgnoreCase(available, features)
	slog.Debug("checked whether only open-source features are requested", "result", result)
	return result, nil
}

// openSourceFeatureSet collects the artifact ids of every open-source
// feature named in the given catalogs.
func openSourceFeatureSet(jsonPaths []string) (map[string]bool, error) {
	features := make(map[string]bool)
	for _, path := range jsonPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, issue.ExecutionWrap(err, "the JSON file is not found at %s", path)
		}
		for _, match := range openSourceCoordinate.FindAllStringSubmatch(string(data), -1) {
			features[strings.ToLower(match[1])] = true
		}
	}
	return features, nil
}

// containsIgnoreCase reports whether the reference set contains every
// target string, ignoring case.
func containsIgnoreCase(reference map[string]bool, target []string) bool {
	for _, t := range target {
		if !reference[strings.ToLower(t)] {
			return false
		}
	}
	return true
}
