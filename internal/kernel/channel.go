// SPDX-License-Identifier: MPL-2.0

package kernel

// Channel is the untyped key-value command store a loaded kernel module
// exposes. A command is issued by putting its named input keys and then
// reading an action key; outputs are read back by key. The typed command
// layer in this package is the only caller; nothing else should talk to a
// Channel directly.
type Channel interface {
	// Put stores an input value under the given key.
	Put(key string, value any)

	// Get reads the value under the given key. Reading an action key
	// triggers execution of the pending command.
	Get(key string) any

	// Close releases every resource the channel holds. It must be safe to
	// call after a failed command.
	Close() error
}

// Channel keys of the kernel command protocol. The names are fixed by the
// kernel module's contract and must not be changed.
const (
	keyInstallLocalESA        = "install.local.esa"
	keySingleJSONFile         = "single.json.file"
	keyFeaturesToResolve      = "features.to.resolve"
	keyPlatforms              = "platforms"
	keyLicenseAccept          = "license.accept"
	keyIsInstallServerFeature = "is.install.server.feature"
	keyInstallIndividualESAs  = "install.individual.esas"
	keyIndividualESAs         = "individual.esas"

	keyActionResult        = "action.result"
	keyActionErrorMessage  = "action.error.message"
	keyActionStacktrace    = "action.exception.stacktrace"
	keyActionInstall       = "action.install"
	keyToExtension         = "to.extension"
	keyActionInstallResult = "action.install.result"

	keyActionVerify   = "action.verify"
	keyVerifyOption   = "verify.option"
	keyUserPublicKeys = "user.public.keys"
	keyDownloadKeys   = "download.pubkeys"
	keyEnvVariableMap = "environment.variable.map"

	keyRuntimeInstallDir = "runtime.install.dir"
	keyOverrideBundles   = "override.jar.bundles"
)
