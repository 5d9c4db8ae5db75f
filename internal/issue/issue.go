// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry for a known failure class.
type Id int

const (
	KernelModuleNotFoundId Id = iota + 1
	ProductJsonNotFoundId
	InvalidVerifyOptionId
	FeatureConflictId
	ContainerEngineNotFoundId
	ProductValidationFailedId
	ConfigLoadFailedId
)

// MarkdownMsg is a markdown-formatted explanation rendered for the user.
type MarkdownMsg string

// HttpLink points at documentation for an issue.
type HttpLink string

// Issue pairs a failure class with a rendered explanation and doc links.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id                { return i.id }
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render produces terminal-ready output for the issue using the given
// glamour style path ("" selects the auto style).
func (i *Issue) Render(stylePath string) (string, error) {
	if stylePath == "" {
		stylePath = "auto"
	}
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var render = glamour.Render

var registry = map[Id]*Issue{
	KernelModuleNotFoundId: {
		id: KernelModuleNotFoundId,
		mdMsg: `
# Install kernel module not found

No resolver kernel module could be located, so features cannot be installed
from the artifact repository.

## Things you can try:
- Verify that the configured install directory points at a complete runtime
  installation (it must contain a ` + "`lib`" + ` directory with the install
  map module)
- Check network access to the artifact repository so the override module can
  be downloaded`,
	},
	ProductJsonNotFoundId: {
		id: ProductJsonNotFoundId,
		mdMsg: `
# Feature catalogs not found

No feature JSON catalogs could be downloaded for the installed runtime.

## Things you can try:
- Confirm the runtime's ` + "`lib/versions`" + ` properties files name a
  product id and version published to the repository
- Check repository connectivity and local cache contents`,
	},
	InvalidVerifyOptionId: {
		id: InvalidVerifyOptionId,
		mdMsg: `
# Invalid verify option

The configured signature-verification option is not valid.

Specify one of: ` + "`enforce`, `warn`, `skip`, `all`" + `.`,
	},
	FeatureConflictId: {
		id: FeatureConflictId,
		mdMsg: `
# Feature conflict

The resolver detected incompatible or duplicate feature definitions among
the requested features.

## Things you can try:
- Remove one of the conflicting features from the request
- Align all requested features on a single platform version`,
	},
	ContainerEngineNotFoundId: {
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found

A target container was configured but neither docker nor podman is
available on this system.`,
	},
	ProductValidationFailedId: {
		id: ProductValidationFailedId,
		mdMsg: `
# Product validation failed

The runtime's self-validation command reported an error after the features
were installed. The installation may be incomplete.`,
	},
	ConfigLoadFailedId: {
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The featctl configuration file exists but could not be read or parsed.`,
	},
}

// ForId returns the catalog entry for the given id, or nil if unknown.
func ForId(id Id) *Issue {
	return registry[id]
}

// All returns every catalog entry ordered by id.
func All() []*Issue {
	ids := maps.Keys(registry)
	slices.Sort(ids)
	issues := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		issues = append(issues, registry[id])
	}
	return issues
}
