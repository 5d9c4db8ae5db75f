// SPDX-License-Identifier: MPL-2.0

// Package product reads the installed runtime's product descriptors and
// runs its self-validation command. Every runtime installation carries one
// properties file per installed product under lib/versions; the orchestration
// engine uses them to find feature catalogs and gate version-dependent
// behavior.
package product

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"

	"featctl/internal/issue"
)

const (
	// OpenLibertyProductID is the product id of the open-source runtime.
	OpenLibertyProductID = "io.openliberty"
	// ClosedLibertyProductID is the product id of the commercial runtime.
	ClosedLibertyProductID = "com.ibm.websphere.appserver"

	productIDKey      = "com.ibm.websphere.productId"
	productVersionKey = "com.ibm.websphere.productVersion"
)

// Properties describes one installed product: its id and version as read
// from a lib/versions properties file.
type Properties struct {
	ID      string
	Version string
}

// LoadProperties reads every *.properties file under <installDir>/lib/versions.
// Each file must name a product id and version; an installation that yields
// no properties files at all is not a runtime installation.
func LoadProperties(installDir string) ([]Properties, error) {
	dir := filepath.Join(installDir, "lib", "versions")
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, issue.ExecutionWrap(err, "cannot read the product properties directory %s", dir)
	}

	var list []Properties
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".properties") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		p, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			return nil, issue.ExecutionWrap(err, "cannot read the product properties file %s", path)
		}
		id, ok := p.Get(productIDKey)
		if !ok {
			return nil, issue.Execution("cannot find the %q property in the file %s. Ensure the file is a valid properties file for the runtime product or extension", productIDKey, path)
		}
		ver, ok := p.Get(productVersionKey)
		if !ok {
			return nil, issue.Execution("cannot find the %q property in the file %s. Ensure the file is a valid properties file for the runtime product or extension", productVersionKey, path)
		}
		list = append(list, Properties{ID: id, Version: ver})
	}

	if len(list) == 0 {
		return nil, issue.Execution("could not find any properties file in the %s directory. Ensure the directory %s contains a runtime installation", dir, installDir)
	}
	return list, nil
}

// OpenLibertyVersion returns the version of the open-source runtime product
// from the list, or "" if it is not installed.
func OpenLibertyVersion(list []Properties) string {
	for _, p := range list {
		if p.ID == OpenLibertyProductID {
			return p.Version
		}
	}
	return ""
}

// IsClosedLiberty reports whether the commercial runtime product is present.
func IsClosedLiberty(list []Properties) bool {
	for _, p := range list {
		if p.ID == ClosedLibertyProductID {
			return true
		}
	}
	return false
}

// IsBetaVersion reports whether a runtime version is a beta build.
func IsBetaVersion(v string) bool {
	return strings.HasSuffix(v, "-beta")
}
