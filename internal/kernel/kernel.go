// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"log/slog"

	"featctl/internal/issue"
)

// mapKernel implements Kernel by translating typed commands into key-value
// operations on an underlying Channel.
type mapKernel struct {
	ch Channel
}

// NewKernel wraps a command channel in the typed Kernel interface.
func NewKernel(ch Channel) Kernel {
	return &mapKernel{ch: ch}
}

// Resolve implements Kernel. A nil action result is an error; an empty one
// is reported as ResultEmpty with whatever message accompanied it, and the
// caller decides what emptiness means.
func (k *mapKernel) Resolve(req ResolveRequest) ResolveResponse {
	k.ch.Put(keyInstallLocalESA, true)
	k.ch.Put(keySingleJSONFile, req.Repositories)
	k.ch.Put(keyFeaturesToResolve, req.Features)
	k.ch.Put(keyPlatforms, req.Platforms)
	k.ch.Put(keyLicenseAccept, req.AcceptLicense)
	k.ch.Put(keyIsInstallServerFeature, true)
	if len(req.IndividualESAs) > 0 {
		k.ch.Put(keyInstallIndividualESAs, true)
		k.ch.Put(keyIndividualESAs, req.IndividualESAs)
	}

	result := k.ch.Get(keyActionResult)
	if result == nil {
		k.debugStacktrace()
		return ResolveResponse{Kind: ResultError, Message: k.errorMessage()}
	}
	coordinates, ok := result.([]string)
	if !ok {
		k.debugStacktrace()
		return ResolveResponse{Kind: ResultError, Message: k.errorMessage()}
	}
	if len(coordinates) == 0 {
		k.debugStacktrace()
		return ResolveResponse{Kind: ResultEmpty, Message: k.errorMessage()}
	}
	return ResolveResponse{Kind: ResultPayload, Coordinates: coordinates}
}

// DownloadPublicKeys implements Kernel.
func (k *mapKernel) DownloadPublicKeys(req DownloadKeysRequest) error {
	k.ch.Get(keyEnvVariableMap)
	k.ch.Put(keyVerifyOption, req.VerifyOption)
	k.ch.Put(keyUserPublicKeys, req.UserKeys)
	k.ch.Get(keyDownloadKeys)

	if msg := k.errorMessage(); msg != "" {
		k.debugStacktrace()
		return issue.Execution("%s", msg)
	}
	return nil
}

// Verify implements Kernel.
func (k *mapKernel) Verify(req VerifyRequest) error {
	k.ch.Put(keyActionVerify, req.Artifacts)
	k.ch.Get(keyActionResult)

	if msg := k.errorMessage(); msg != "" {
		k.debugStacktrace()
		return issue.Execution("%s", msg)
	}
	return nil
}

// Install implements Kernel.
func (k *mapKernel) Install(req InstallRequest) InstallResponse {
	k.ch.Put(keyLicenseAccept, req.AcceptLicense)
	k.ch.Put(keyActionInstall, req.ArtifactPath)
	k.ch.Put(keyToExtension, req.Extension)

	slog.Debug("kernel install", "action.result", k.ch.Get(keyActionResult))
	if msg := k.errorMessage(); msg != "" {
		k.debugStacktrace()
		return InstallResponse{Kind: ResultError, Message: msg}
	}
	if installed, ok := k.ch.Get(keyActionInstallResult).([]string); ok && len(installed) > 0 {
		return InstallResponse{Kind: ResultPayload, Installed: installed}
	}
	return InstallResponse{Kind: ResultEmpty}
}

// Close implements Kernel. Channel resources are released exactly once; the
// caller decides whether a close failure may surface (it must never replace
// an earlier command error).
func (k *mapKernel) Close() error {
	if err := k.ch.Close(); err != nil {
		return issue.ExecutionWrap(err, "could not release kernel resources after installing features")
	}
	return nil
}

func (k *mapKernel) errorMessage() string {
	if msg, ok := k.ch.Get(keyActionErrorMessage).(string); ok {
		return msg
	}
	return ""
}

func (k *mapKernel) debugStacktrace() {
	if trace := k.ch.Get(keyActionStacktrace); trace != nil {
		slog.Debug("kernel command failed", "stacktrace", trace)
	}
}
