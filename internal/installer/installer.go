// SPDX-License-Identifier: MPL-2.0

// Package installer holds the orchestration engine for feature
// installation: the gating logic deciding which installation path a run
// takes, the resolve / download / verify / install / validate sequence
// against the resolver kernel, and the container fallback path that
// bypasses the kernel entirely.
package installer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"featctl/internal/config"
	"featctl/internal/conflict"
	"featctl/internal/container"
	"featctl/internal/esa"
	"featctl/internal/issue"
	"featctl/internal/kernel"
	"featctl/internal/product"
	"featctl/internal/repository"
	"featctl/internal/version"
)

const (
	// minUserFeatureVersion is the oldest runtime whose kernel can install
	// user features; older runtimes fall back to manual extraction.
	minUserFeatureVersion = "21.0.0.11"
	// minVerifyFeatureVersion is the oldest runtime supporting signature
	// verification.
	minVerifyFeatureVersion = "23.0.0.9"
	// minVersionlessFeatureVersion is the oldest runtime that can resolve
	// versionless features against declared platforms.
	minVersionlessFeatureVersion = "24.0.0.8"

	// defaultExtension receives features whose manifest and configuration
	// name no product extension.
	defaultExtension = "usr"

	featuresJSONArtifactID = "features"
	schemaCacheDirName     = ".libertyls"
)

// Options configures an Installer. Repo is always required; Engine only
// when ContainerName routes the run into a container.
type Options struct {
	// InstallDir is the runtime installation directory.
	InstallDir string
	// BuildDir is the build working directory.
	BuildDir string
	// From is a single-directory repository override; rejected, see New.
	From string
	// To is the configured target product extension.
	To string
	// PluginESAs are local feature archive paths declared by the hosting
	// build plugin.
	PluginESAs []string
	// AdditionalJSONs are extra feature-catalog coordinates (g:a:v).
	AdditionalJSONs []string
	// Verify is the signature-verification mode value.
	Verify string
	// ContainerName, when set, routes the install into that container.
	ContainerName string
	// PublicKeys are user-supplied signature keys.
	PublicKeys []config.PublicKey
	// UserExtensionDir overrides the manual installer's target directory.
	UserExtensionDir string

	Repo   repository.Repository
	Engine container.Engine

	// Validator overrides the product self-validation runner, for tests.
	Validator *product.Validator
	// LoadKernel overrides kernel construction, for tests.
	LoadKernel func(ctx context.Context) (kernel.Kernel, error)
}

// Installer orchestrates one or more feature installation runs against a
// single runtime installation. The manual-install map persists across runs
// on the same Installer; everything else is per-run state.
type Installer struct {
	installDir     string
	buildDir       string
	to             string
	containerName  string
	pluginESAs     []string
	publicKeys     []config.PublicKey
	verify         config.VerifyOption
	runtimeVersion string

	repo       repository.Repository
	engine     container.Engine
	validator  *product.Validator
	loadKernel func(ctx context.Context) (kernel.Kernel, error)
	manual     *esa.ManualInstaller

	// jsonPaths are the downloaded feature catalogs for the installed
	// products, fixed at construction.
	jsonPaths []string
}

// New validates the scenario and prepares an Installer: the verify option
// must parse, and on the local path the kernel module must be locatable,
// the product feature catalogs downloadable, and the 'from' repository
// override absent. Scenario violations abort here, before any mutation.
func New(ctx context.Context, opts Options) (*Installer, error) {
	verify, err := config.ParseVerifyOption(opts.Verify)
	if err != nil {
		return nil, err
	}

	props, err := product.LoadProperties(opts.InstallDir)
	if err != nil {
		return nil, err
	}
	runtimeVersion := product.OpenLibertyVersion(props)

	inst := &Installer{
		installDir:     opts.InstallDir,
		buildDir:       opts.BuildDir,
		to:             opts.To,
		containerName:  opts.ContainerName,
		pluginESAs:     opts.PluginESAs,
		publicKeys:     opts.PublicKeys,
		verify:         verify,
		runtimeVersion: runtimeVersion,
		repo:           opts.Repo,
		engine:         opts.Engine,
		validator:      opts.Validator,
		loadKernel:     opts.LoadKernel,
		manual:         esa.NewManualInstaller(opts.InstallDir, opts.UserExtensionDir),
	}
	if inst.validator == nil {
		inst.validator = product.NewValidator(opts.InstallDir)
	}

	if opts.ContainerName != "" {
		if inst.engine == nil {
			engine, err := container.AutoDetectEngine()
			if err != nil {
				return nil, err
			}
			inst.engine = engine
		}
		return inst, nil
	}

	locator := &kernel.Locator{Repo: opts.Repo, InstallDir: opts.InstallDir, RuntimeVersion: runtimeVersion}
	if _, err := locator.ModulePath(ctx); err != nil {
		return nil, err
	}
	if inst.loadKernel == nil {
		loader := &kernel.Loader{Locator: locator}
		inst.loadKernel = loader.Load
	}

	jsons := inst.downloadProductJSONs(ctx, props)
	if len(opts.AdditionalJSONs) > 0 && runtimeVersion != "" && version.AtLeast(runtimeVersion, minUserFeatureVersion) {
		jsons = append(jsons, inst.downloadAdditionalJSONs(ctx, opts.AdditionalJSONs)...)
	}
	if len(jsons) == 0 {
		return nil, issue.Scenario("cannot find feature JSONs for the installed runtime in the artifact repository")
	}
	inst.jsonPaths = jsons

	if opts.From != "" {
		slog.Debug("repository override configured", "from", opts.From)
		return nil, issue.Scenario("cannot install features from an artifact repository when the 'from' parameter is configured")
	}
	return inst, nil
}

// InstallFeatures resolves, downloads, verifies, and installs the requested
// features. Sequential and fail-fast: no step starts before the previous
// one succeeds, and the per-artifact install loop aborts on the first
// error. Platforms are declared platform versions for versionless features.
func (i *Installer) InstallFeatures(ctx context.Context, acceptLicense bool, features, platforms []string) (retErr error) {
	features = CombineToSet(features)

	featureToExt := make(map[string]string)
	var toInstall []string

	if i.runtimeVersion != "" && len(i.pluginESAs) > 0 {
		slog.Info("plugin listed feature archives", "esas", i.pluginESAs)
		if !version.AtLeast(i.runtimeVersion, minUserFeatureVersion) {
			slog.Info("the runtime cannot install user feature archives itself")
			slog.Info("attempting to manually install the user feature archives without resolving their dependencies")
			slog.Info("recommended user action: upgrade the runtime and provide a features-bom file for the user feature",
				"minimum_version", minUserFeatureVersion)
			if err := i.manual.Install(i.pluginESAs); err != nil {
				return err
			}
		} else {
			toInstall = append(toInstall, i.pluginESAs...)
		}
	}

	containsVersionless := false
	for _, feature := range features {
		if ext, name, qualified := strings.Cut(feature, ":"); qualified {
			name = strings.ToLower(name)
			featureToExt[name] = ext
			// The name may be either the symbolic or the short name of a
			// feature the manual path already placed.
			if !i.manual.Contains(name) {
				toInstall = append(toInstall, name)
			}
		} else {
			name := strings.ToLower(feature)
			if !strings.Contains(name, "-") {
				containsVersionless = true
			}
			featureToExt[name] = ""
			toInstall = append(toInstall, name)
		}
	}

	if i.runtimeVersion != "" && (len(platforms) > 0 || containsVersionless) {
		if !version.AtLeast(i.runtimeVersion, minVersionlessFeatureVersion) {
			if len(platforms) > 0 {
				return issue.Execution("detected versionless feature(s) for installation. The minimum required runtime version for versionless feature support is %s", minVersionlessFeatureVersion)
			}
			slog.Warn("detected possible versionless feature(s) for installation",
				"minimum_version", minVersionlessFeatureVersion)
		}
	}

	if len(toInstall) == 0 {
		slog.Debug("no features left to install")
		return nil
	}

	if i.containerName != "" {
		return i.InstallOnContainer(ctx, toInstall, acceptLicense, i.verify)
	}

	slog.Debug("feature catalogs", "jsons", i.jsonPaths)

	// Open-source-only feature sets never need an explicit license flag.
	accept := acceptLicense
	if only, err := i.onlyOpenSourceFeatures(toInstall); err != nil {
		return err
	} else if only {
		accept = true
	}

	guard := kernel.DisableJarCache()
	defer guard.Restore()

	k, err := i.loadKernel(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := k.Close(); cerr != nil {
			if retErr == nil {
				retErr = cerr
			} else {
				slog.Warn("could not release kernel resources", "error", cerr)
			}
		}
	}()

	coordinates, err := i.resolve(k, toInstall, platforms, accept)
	if err != nil {
		return err
	}
	if len(coordinates) == 0 {
		return nil
	}

	artifacts, artifactExt, err := i.download(ctx, coordinates, featureToExt)
	if err != nil {
		return err
	}

	if i.verify != config.VerifySkip {
		if err := i.verifyFeatures(k, artifacts); err != nil {
			return err
		}
	}

	slog.Info("installing features", "features", toInstall)
	installed, err := i.install(k, artifacts, artifactExt, accept)
	if err != nil {
		return err
	}

	if err := i.validator.Validate(ctx); err != nil {
		return err
	}
	slog.Info("the following features have been installed", "features", strings.Join(installed, " "))

	i.removeSchemaCache()
	return nil
}

// resolve drives the kernel resolve command and interprets its tri-state
// result. An empty payload with no message, or with the informational
// already-installed code, is a successful no-op.
func (i *Installer) resolve(k kernel.Kernel, toInstall, platforms []string, accept bool) ([]string, error) {
	if len(platforms) > 0 {
		slog.Info("resolving features", "features", toInstall, "platforms", platforms)
	} else {
		slog.Info("resolving features", "features", toInstall)
	}

	resp := k.Resolve(kernel.ResolveRequest{
		Features:       toInstall,
		Platforms:      platforms,
		Repositories:   i.jsonPaths,
		AcceptLicense:  accept,
		IndividualESAs: i.pluginESAs,
	})
	switch resp.Kind {
	case kernel.ResultPayload:
		return resp.Coordinates, nil
	case kernel.ResultEmpty:
		if resp.Message == "" {
			slog.Debug("the resolve result was empty but the install kernel did not issue any messages")
			slog.Info("the features are already installed, so no action is needed")
			return nil, nil
		}
		if conflict.IsAlreadyInstalled(resp.Message) {
			slog.Info(resp.Message)
			slog.Info("the features are already installed, so no action is needed")
			return nil, nil
		}
		return nil, i.classifyResolveError(toInstall, resp.Message)
	default:
		return nil, i.classifyResolveError(toInstall, resp.Message)
	}
}

func (i *Installer) classifyResolveError(toInstall []string, message string) error {
	if conflict.IsConflict(message) {
		return &conflict.Error{Features: toInstall, Message: message}
	}
	return issue.Execution("%s", message)
}

// download fetches each resolved artifact plus, outside skip mode, its
// detached signature. It returns the artifact paths in resolution order and
// the target extension per path.
func (i *Installer) download(ctx context.Context, coordinates []string, featureToExt map[string]string) ([]string, map[string]string, error) {
	artifactExt := make(map[string]string, len(coordinates))
	artifacts := make([]string, 0, len(coordinates))
	for _, coordinate := range coordinates {
		coord, err := repository.ParseCoordinate(coordinate)
		if err != nil {
			return nil, nil, err
		}
		path, err := i.downloadESA(ctx, coord)
		if err != nil {
			return nil, nil, err
		}
		artifacts = append(artifacts, path)
		artifactExt[path] = featureToExt[strings.ToLower(coord.ArtifactID)]
	}
	return artifacts, artifactExt, nil
}

// downloadESA fetches one feature archive. A signature-download failure is
// fatal only in verify mode all: for repository features the signature is
// re-checked later by the kernel, but for a user feature this is the only
// chance, and under all every feature must verify.
func (i *Installer) downloadESA(ctx context.Context, coord repository.Coordinate) (string, error) {
	path, err := i.repo.DownloadArtifact(ctx, coord.GroupID, coord.ArtifactID, "esa", coord.Version)
	if err != nil {
		return "", issue.ExecutionWrap(err, "could not download the feature %s", coord)
	}
	if i.verify != config.VerifySkip {
		if _, err := i.repo.DownloadSignature(ctx, path, coord.GroupID, coord.ArtifactID, "esa.asc", coord.Version); err != nil {
			if i.verify == config.VerifyAll {
				return "", issue.ExecutionWrap(err, "could not download the signature for %s", coord)
			}
			slog.Warn("signature could not be downloaded", "coordinate", coord.String(), "error", err)
		}
	}
	return path, nil
}

// verifyFeatures downloads the public keys and verifies every artifact's
// signature. Runtimes older than the verify threshold skip with a warning.
// A failure during cryptographic validation is always fatal.
func (i *Installer) verifyFeatures(k kernel.Kernel, artifacts []string) error {
	if !version.AtLeast(i.runtimeVersion, minVerifyFeatureVersion) {
		slog.Warn("skipping feature verification", "minimum_version", minVerifyFeatureVersion)
		return nil
	}

	slog.Info("downloading public key(s) for signature verification")
	if err := k.DownloadPublicKeys(kernel.DownloadKeysRequest{
		VerifyOption: string(i.verify),
		UserKeys:     keyMaps(i.publicKeys),
	}); err != nil {
		return err
	}

	slog.Info("verifying features")
	return k.Verify(kernel.VerifyRequest{Artifacts: artifacts})
}

// install issues one kernel install command per artifact, aborting the loop
// on the first error. Returns the accumulated installed-feature identifiers.
func (i *Installer) install(k kernel.Kernel, artifacts []string, artifactExt map[string]string, accept bool) ([]string, error) {
	var installed []string
	for _, esaPath := range artifacts {
		ext := artifactExt[esaPath]
		if ext != "" && i.to != "" {
			slog.Warn("the product extension location specified in the server configuration overrides the extension from the build configuration",
				"server_extension", ext, "build_extension", i.to)
		}
		target := defaultExtension
		switch {
		case ext != "":
			slog.Debug("installing to extension from server configuration", "extension", ext)
			target = ext
		case i.to != "":
			slog.Debug("installing to extension", "extension", i.to)
			target = i.to
		}

		resp := k.Install(kernel.InstallRequest{
			AcceptLicense: accept,
			ArtifactPath:  esaPath,
			Extension:     target,
		})
		if resp.Kind == kernel.ResultError {
			return nil, issue.Execution("%s", resp.Message)
		}
		installed = append(installed, resp.Installed...)
	}
	return installed, nil
}

// removeSchemaCache deletes the editor-tooling schema cache so it
// regenerates against the new feature set. Best effort.
func (i *Installer) removeSchemaCache() {
	if i.buildDir == "" {
		return
	}
	dir := filepath.Join(i.buildDir, schemaCacheDirName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		slog.Debug("could not delete the schema cache directory after installing features", "dir", dir, "error", err)
		return
	}
	slog.Debug("deleted the schema cache directory after installing features", "dir", dir)
}

// downloadProductJSONs fetches the feature catalog of every installed
// product. A product without a published catalog is not an error here; the
// final empty-set check happens in New.
func (i *Installer) downloadProductJSONs(ctx context.Context, props []product.Properties) []string {
	var jsons []string
	for _, p := range props {
		path, err := i.repo.DownloadArtifact(ctx, p.ID+".features", featuresJSONArtifactID, "json", p.Version)
		if err != nil {
			slog.Debug("cannot find the feature catalog for a product", "product", p.ID, "version", p.Version, "error", err)
			continue
		}
		jsons = append(jsons, path)
	}
	return jsons
}

// downloadAdditionalJSONs fetches user-supplied feature catalogs. Failures
// downgrade to warnings: the coordinate may describe a feature the run does
// not actually need.
func (i *Installer) downloadAdditionalJSONs(ctx context.Context, coordinates []string) []string {
	var jsons []string
	for _, coordinate := range coordinates {
		coord, err := repository.ParseCoordinate(coordinate)
		if err != nil {
			slog.Warn("skipping a malformed additional feature catalog coordinate", "coordinate", coordinate, "error", err)
			continue
		}
		path, err := i.repo.DownloadArtifact(ctx, coord.GroupID, coord.ArtifactID, "json", coord.Version)
		if err != nil {
			slog.Warn("unable to find an additional features JSON in the connected repositories. Please ignore this warning if this is not a user feature",
				"coordinate", coordinate)
			slog.Debug("unable to find additional features JSON", "error", err)
			continue
		}
		jsons = append(jsons, path)
	}
	return jsons
}

func keyMaps(keys []config.PublicKey) []map[string]string {
	maps := make([]map[string]string, 0, len(keys))
	for _, key := range keys {
		maps = append(maps, map[string]string{"keyid": key.ID, "keyurl": key.URL})
	}
	return maps
}
