// SPDX-License-Identifier: MPL-2.0

package kernel

// ResultKind distinguishes the three shapes a kernel command result can
// take. An empty result is not an error: the orchestration layer decides
// what emptiness means for each command.
type ResultKind int

const (
	// ResultPayload is a success carrying data.
	ResultPayload ResultKind = iota
	// ResultEmpty is a success (or no-op) carrying no data; the message,
	// when present, is informational.
	ResultEmpty
	// ResultError is a failure carrying an error message.
	ResultError
)

type (
	// ResolveRequest asks the kernel to resolve a feature list against the
	// downloaded feature catalogs.
	ResolveRequest struct {
		Features      []string
		Platforms     []string
		Repositories  []string // feature catalog JSON file paths
		AcceptLicense bool
		// IndividualESAs are plugin-declared local feature archives to be
		// resolved alongside repository features.
		IndividualESAs []string
	}

	// ResolveResponse carries the resolved artifact coordinates, an empty
	// no-op marker, or an error message.
	ResolveResponse struct {
		Kind        ResultKind
		Coordinates []string
		Message     string
	}

	// DownloadKeysRequest asks the kernel to fetch the public keys needed
	// for signature verification.
	DownloadKeysRequest struct {
		VerifyOption string
		// UserKeys are user-supplied key references (id/url pairs).
		UserKeys []map[string]string
	}

	// VerifyRequest asks the kernel to verify the signatures of downloaded
	// feature archives.
	VerifyRequest struct {
		Artifacts []string
	}

	// InstallRequest asks the kernel to install one downloaded archive.
	InstallRequest struct {
		AcceptLicense bool
		ArtifactPath  string
		// Extension is the product extension to install into.
		Extension string
	}

	// InstallResponse carries the identifiers of installed features or an
	// error message. The error case is immediately fatal for the whole run.
	InstallResponse struct {
		Kind      ResultKind
		Installed []string
		Message   string
	}

	// Kernel is the capability interface of a loaded resolver module. A
	// kernel must be closed after use regardless of command outcomes.
	Kernel interface {
		Resolve(req ResolveRequest) ResolveResponse
		DownloadPublicKeys(req DownloadKeysRequest) error
		Verify(req VerifyRequest) error
		Install(req InstallRequest) InstallResponse
		Close() error
	}
)
