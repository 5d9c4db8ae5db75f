// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"featctl/internal/conflict"
	"featctl/internal/issue"
	"featctl/internal/kernel"
	"featctl/internal/product"
)

// fakeRepo serves artifacts by "group:artifact:type:version" key.
type fakeRepo struct {
	artifacts    map[string]string
	sigErr       error
	sigDownloads int
}

func (r *fakeRepo) DownloadArtifact(_ context.Context, groupID, artifactID, typ, ver string) (string, error) {
	key := strings.Join([]string{groupID, artifactID, typ, ver}, ":")
	if path, ok := r.artifacts[key]; ok {
		return path, nil
	}
	return "", fmt.Errorf("artifact %s not found", key)
}

func (r *fakeRepo) DownloadSignature(_ context.Context, esaPath, _, _, _, _ string) (string, error) {
	r.sigDownloads++
	if r.sigErr != nil {
		return "", r.sigErr
	}
	return esaPath + ".asc", nil
}

// fakeKernel records every command and plays back canned responses.
type fakeKernel struct {
	resolveResp      kernel.ResolveResponse
	resolveReqs      []kernel.ResolveRequest
	downloadKeysErr  error
	downloadKeyReqs  []kernel.DownloadKeysRequest
	verifyErr        error
	verifyReqs       []kernel.VerifyRequest
	installResps     []kernel.InstallResponse
	installReqs      []kernel.InstallRequest
	closeErr         error
	closed           bool
}

func (k *fakeKernel) Resolve(req kernel.ResolveRequest) kernel.ResolveResponse {
	k.resolveReqs = append(k.resolveReqs, req)
	return k.resolveResp
}

func (k *fakeKernel) DownloadPublicKeys(req kernel.DownloadKeysRequest) error {
	k.downloadKeyReqs = append(k.downloadKeyReqs, req)
	return k.downloadKeysErr
}

func (k *fakeKernel) Verify(req kernel.VerifyRequest) error {
	k.verifyReqs = append(k.verifyReqs, req)
	return k.verifyErr
}

func (k *fakeKernel) Install(req kernel.InstallRequest) kernel.InstallResponse {
	k.installReqs = append(k.installReqs, req)
	if len(k.installResps) == 0 {
		return kernel.InstallResponse{Kind: kernel.ResultEmpty}
	}
	resp := k.installResps[0]
	k.installResps = k.installResps[1:]
	return resp
}

func (k *fakeKernel) Close() error {
	k.closed = true
	return k.closeErr
}

func loadFake(k *fakeKernel) func(context.Context) (kernel.Kernel, error) {
	return func(context.Context) (kernel.Kernel, error) { return k, nil }
}

// newRuntime lays out a minimal runtime installation: product properties
// plus a bundled kernel module jar.
func newRuntime(t *testing.T, productVersion string) string {
	t.Helper()
	dir := t.TempDir()

	versionsDir := filepath.Join(dir, "lib", "versions")
	if err := os.MkdirAll(versionsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	props := "com.ibm.websphere.productId=io.openliberty\ncom.ibm.websphere.productVersion=" + productVersion + "\n"
	if err := os.WriteFile(filepath.Join(versionsDir, "openliberty.properties"), []byte(props), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib", "com.ibm.ws.install.map_1.0.jar"), []byte("jar"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

// newCatalogRepo builds a fakeRepo carrying the product feature catalog for
// the given version, listing the given open-source artifact ids.
func newCatalogRepo(t *testing.T, productVersion string, openSourceArtifacts ...string) *fakeRepo {
	t.Helper()
	dir := t.TempDir()

	var sb strings.Builder
	for _, artifact := range openSourceArtifacts {
		fmt.Fprintf(&sb, "{\"mavenCoordinates\":\"io.openliberty.features:%s:%s\"}\n", artifact, productVersion)
	}
	jsonPath := filepath.Join(dir, "features.json")
	if err := os.WriteFile(jsonPath, []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return &fakeRepo{artifacts: map[string]string{
		"io.openliberty.features:features:json:" + productVersion: jsonPath,
	}}
}

func addESA(t *testing.T, repo *fakeRepo, artifactID, ver string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), artifactID+".esa")
	if err := os.WriteFile(path, []byte("esa"), 0o644); err != nil {
		t.Fatal(err)
	}
	repo.artifacts["io.openliberty.features:"+artifactID+":esa:"+ver] = path
	return path
}

func okValidator(t *testing.T, installDir string) *product.Validator {
	t.Helper()
	return product.NewValidator(installDir, product.WithExecCommand(
		func(ctx context.Context, name string, arg ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "sh", "-c", "echo 'Product validation completed'")
		}))
}

func newTestInstaller(t *testing.T, runtimeVersion string, repo *fakeRepo, k *fakeKernel, mutate func(*Options)) *Installer {
	t.Helper()
	dir := newRuntime(t, runtimeVersion)
	opts := Options{
		InstallDir: dir,
		BuildDir:   t.TempDir(),
		Verify:     "enforce",
		Repo:       repo,
		Validator:  okValidator(t, dir),
		LoadKernel: loadFake(k),
	}
	if mutate != nil {
		mutate(&opts)
	}
	inst, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return inst
}

func TestNewRejectsInvalidVerify(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Options{
		InstallDir: newRuntime(t, "24.0.0.9"),
		Verify:     "bogus",
		Repo:       &fakeRepo{},
	})
	if err == nil || !strings.Contains(err.Error(), "invalid verify option") {
		t.Fatalf("expected an invalid-verify error, got %v", err)
	}
}

func TestNewMissingKernelModule(t *testing.T) {
	t.Parallel()

	dir := newRuntime(t, "24.0.0.9")
	if err := os.Remove(filepath.Join(dir, "lib", "com.ibm.ws.install.map_1.0.jar")); err != nil {
		t.Fatal(err)
	}
	_, err := New(context.Background(), Options{InstallDir: dir, Repo: &fakeRepo{}})
	if !errors.Is(err, issue.ErrScenario) {
		t.Fatalf("expected a scenario error, got %v", err)
	}
}

func TestNewNoCatalogs(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Options{
		InstallDir: newRuntime(t, "24.0.0.9"),
		Repo:       &fakeRepo{},
	})
	if !errors.Is(err, issue.ErrScenario) || !strings.Contains(err.Error(), "JSON") {
		t.Fatalf("expected a scenario error about missing catalogs, got %v", err)
	}
}

func TestNewRejectsFromParameter(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
	_, err := New(context.Background(), Options{
		InstallDir: newRuntime(t, "24.0.0.9"),
		From:       "/some/local/repo",
		Repo:       repo,
	})
	if !errors.Is(err, issue.ErrScenario) || !strings.Contains(err.Error(), "'from'") {
		t.Fatalf("expected a scenario error about 'from', got %v", err)
	}
}

func TestInstallFeaturesFullRun(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	esaPath := addESA(t, repo, "mpHealth-4.0", ver)

	k := &fakeKernel{
		resolveResp: kernel.ResolveResponse{
			Kind:        kernel.ResultPayload,
			Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
		},
		installResps: []kernel.InstallResponse{
			{Kind: kernel.ResultPayload, Installed: []string{"mpHealth-4.0"}},
		},
	}

	var schemaDir string
	inst := newTestInstaller(t, ver, repo, k, func(o *Options) {
		schemaDir = filepath.Join(o.BuildDir, ".libertyls")
		if err := os.MkdirAll(schemaDir, 0o755); err != nil {
			t.Fatal(err)
		}
	})

	if err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}

	if len(k.resolveReqs) != 1 {
		t.Fatalf("expected one resolve, got %d", len(k.resolveReqs))
	}
	if got := k.resolveReqs[0].Features; len(got) != 1 || got[0] != "mphealth-4.0" {
		t.Errorf("expected the lower-cased feature name, got %v", got)
	}
	if len(k.downloadKeyReqs) != 1 || len(k.verifyReqs) != 1 {
		t.Errorf("expected one key download and one verify, got %d/%d", len(k.downloadKeyReqs), len(k.verifyReqs))
	}
	if len(k.installReqs) != 1 {
		t.Fatalf("expected one install, got %d", len(k.installReqs))
	}
	if k.installReqs[0].ArtifactPath != esaPath {
		t.Errorf("unexpected artifact path %q", k.installReqs[0].ArtifactPath)
	}
	if k.installReqs[0].Extension != "usr" {
		t.Errorf("expected the default extension, got %q", k.installReqs[0].Extension)
	}
	if !k.closed {
		t.Error("expected the kernel to be closed")
	}
	if _, err := os.Stat(schemaDir); !os.IsNotExist(err) {
		t.Error("expected the schema cache directory to be removed")
	}
	if repo.sigDownloads != 1 {
		t.Errorf("expected one signature download, got %d", repo.sigDownloads)
	}
}

func TestInstallFeaturesEmptyRequestIsNoOp(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
	inst := newTestInstaller(t, "24.0.0.9", repo, &fakeKernel{}, func(o *Options) {
		o.LoadKernel = func(context.Context) (kernel.Kernel, error) {
			t.Error("the kernel must not be loaded for an empty request")
			return nil, errors.New("unreachable")
		}
	})

	if err := inst.InstallFeatures(context.Background(), false, nil, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
}

func TestResolveConflictIsWrapped(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "servlet-6.0", "servlet-5.0")
	k := &fakeKernel{resolveResp: kernel.ResolveResponse{
		Kind:    kernel.ResultError,
		Message: "CWWKF0033E: The singleton features servlet-5.0 and servlet-6.0 cannot be loaded at the same time.",
	}}
	inst := newTestInstaller(t, "24.0.0.9", repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"servlet-5.0", "servlet-6.0"}, nil)
	var conflictErr *conflict.Error
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected a conflict error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), conflict.MessagePrefix) {
		t.Errorf("expected the conflict prefix, got %q", err.Error())
	}
	if !k.closed {
		t.Error("expected the kernel to be closed after the failure")
	}
}

func TestResolveNonConflictErrorPassesThrough(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
	k := &fakeKernel{resolveResp: kernel.ResolveResponse{
		Kind:    kernel.ResultError,
		Message: "CWWKF1203E: Unable to obtain the following features: nosuch-1.0.",
	}}
	inst := newTestInstaller(t, "24.0.0.9", repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"nosuch-1.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "CWWKF1203E") {
		t.Fatalf("expected the kernel message verbatim, got %v", err)
	}
	var conflictErr *conflict.Error
	if errors.As(err, &conflictErr) {
		t.Error("a non-conflict message must not be wrapped as a conflict")
	}
}

func TestResolveEmptyResultsAreSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
	}{
		{"no message", ""},
		{"already installed", "CWWKF1250I: The following features are already installed: mpHealth-4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
			k := &fakeKernel{resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty, Message: tt.message}}
			inst := newTestInstaller(t, "24.0.0.9", repo, k, nil)

			if err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil); err != nil {
				t.Fatalf("an empty resolve result must be success, got %v", err)
			}
			if len(k.installReqs) != 0 {
				t.Errorf("no install must be issued, got %d", len(k.installReqs))
			}
		})
	}
}

func TestVerifySkipIssuesNoVerifyCommands(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	addESA(t, repo, "mpHealth-4.0", ver)

	k := &fakeKernel{resolveResp: kernel.ResolveResponse{
		Kind:        kernel.ResultPayload,
		Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
	}}
	inst := newTestInstaller(t, ver, repo, k, func(o *Options) { o.Verify = "skip" })

	if err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
	if len(k.downloadKeyReqs) != 0 || len(k.verifyReqs) != 0 {
		t.Errorf("skip mode must not verify, got %d key downloads and %d verifies", len(k.downloadKeyReqs), len(k.verifyReqs))
	}
	if repo.sigDownloads != 0 {
		t.Errorf("skip mode must not download signatures, got %d", repo.sigDownloads)
	}
}

func TestVerifySkippedBelowThreshold(t *testing.T) {
	t.Parallel()

	const ver = "22.0.0.1"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	addESA(t, repo, "mpHealth-4.0", ver)

	k := &fakeKernel{resolveResp: kernel.ResolveResponse{
		Kind:        kernel.ResultPayload,
		Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
	}}
	inst := newTestInstaller(t, ver, repo, k, nil)

	if err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
	if len(k.downloadKeyReqs) != 0 || len(k.verifyReqs) != 0 {
		t.Error("verification must be skipped below the supported runtime version")
	}
	if len(k.installReqs) != 1 {
		t.Errorf("the install must still happen, got %d installs", len(k.installReqs))
	}
}

func TestSignatureDownloadFailureSeverity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verify  string
		wantErr bool
	}{
		{"enforce", false},
		{"warn", false},
		{"all", true},
	}
	for _, tt := range tests {
		t.Run(tt.verify, func(t *testing.T) {
			t.Parallel()

			const ver = "24.0.0.9"
			repo := newCatalogRepo(t, ver, "mpHealth-4.0")
			addESA(t, repo, "mpHealth-4.0", ver)
			repo.sigErr = errors.New("404 not found")

			k := &fakeKernel{resolveResp: kernel.ResolveResponse{
				Kind:        kernel.ResultPayload,
				Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
			}}
			inst := newTestInstaller(t, ver, repo, k, func(o *Options) { o.Verify = tt.verify })

			err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil)
			if tt.wantErr && err == nil {
				t.Fatal("expected a fatal signature-download error under verify=all")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected a warning only, got %v", err)
			}
		})
	}
}

func TestVerifyFailureIsFatal(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	addESA(t, repo, "mpHealth-4.0", ver)

	k := &fakeKernel{
		resolveResp: kernel.ResolveResponse{
			Kind:        kernel.ResultPayload,
			Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
		},
		verifyErr: issue.Execution("CWWKF1514E: signature verification failed"),
	}
	inst := newTestInstaller(t, ver, repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "CWWKF1514E") {
		t.Fatalf("expected the verification failure, got %v", err)
	}
	if len(k.installReqs) != 0 {
		t.Error("no install may follow a failed verification")
	}
}

func TestVersionlessGate(t *testing.T) {
	t.Parallel()

	t.Run("warn and proceed without platforms", func(t *testing.T) {
		t.Parallel()

		repo := newCatalogRepo(t, "24.0.0.3", "health")
		k := &fakeKernel{resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty}}
		inst := newTestInstaller(t, "24.0.0.3", repo, k, nil)

		if err := inst.InstallFeatures(context.Background(), true, []string{"health"}, nil); err != nil {
			t.Fatalf("a versionless feature without platforms must only warn, got %v", err)
		}
		if len(k.resolveReqs) != 1 {
			t.Error("the run must proceed to resolution")
		}
	})

	t.Run("fail with platforms", func(t *testing.T) {
		t.Parallel()

		repo := newCatalogRepo(t, "24.0.0.3", "health")
		k := &fakeKernel{}
		inst := newTestInstaller(t, "24.0.0.3", repo, k, nil)

		err := inst.InstallFeatures(context.Background(), true, []string{"health"}, []string{"javaee-8.0"})
		if err == nil || !strings.Contains(err.Error(), minVersionlessFeatureVersion) {
			t.Fatalf("expected a hard failure naming the minimum version, got %v", err)
		}
		if len(k.resolveReqs) != 0 {
			t.Error("the run must fail before resolution")
		}
	})
}

func TestLicenseOverrideForOpenSourceOnly(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	k := &fakeKernel{resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty}}
	inst := newTestInstaller(t, ver, repo, k, nil)

	if err := inst.InstallFeatures(context.Background(), false, []string{"mpHealth-4.0"}, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
	if len(k.resolveReqs) != 1 || !k.resolveReqs[0].AcceptLicense {
		t.Error("license must be treated as accepted for open-source-only feature sets")
	}
}

func TestLicenseNotOverriddenForUnknownFeatures(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	k := &fakeKernel{resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty}}
	inst := newTestInstaller(t, ver, repo, k, nil)

	if err := inst.InstallFeatures(context.Background(), false, []string{"commercialFeature-1.0"}, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
	if len(k.resolveReqs) != 1 || k.resolveReqs[0].AcceptLicense {
		t.Error("license must not be overridden when a feature is outside the open-source catalog")
	}
}

func TestExtensionPrecedence(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"

	tests := []struct {
		name    string
		feature string
		to      string
		want    string
	}{
		{"manifest extension wins over configured to", "myext:custFeature-1.0", "cfgext", "myext"},
		{"configured to when no manifest extension", "custFeature-1.0", "cfgext", "cfgext"},
		{"default usr when neither", "custFeature-1.0", "", "usr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newCatalogRepo(t, ver, "mphealth-4.0")
			addESA(t, repo, "custFeature-1.0", ver)

			k := &fakeKernel{resolveResp: kernel.ResolveResponse{
				Kind:        kernel.ResultPayload,
				Coordinates: []string{"io.openliberty.features:custFeature-1.0:" + ver},
			}}
			inst := newTestInstaller(t, ver, repo, k, func(o *Options) { o.To = tt.to })

			if err := inst.InstallFeatures(context.Background(), true, []string{tt.feature}, nil); err != nil {
				t.Fatalf("InstallFeatures: %v", err)
			}
			if len(k.installReqs) != 1 {
				t.Fatalf("expected one install, got %d", len(k.installReqs))
			}
			if got := k.installReqs[0].Extension; got != tt.want {
				t.Errorf("expected extension %q, got %q", tt.want, got)
			}
		})
	}
}

func TestInstallAbortsOnFirstError(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "a-1.0", "b-1.0")
	addESA(t, repo, "a-1.0", ver)
	addESA(t, repo, "b-1.0", ver)

	k := &fakeKernel{
		resolveResp: kernel.ResolveResponse{
			Kind: kernel.ResultPayload,
			Coordinates: []string{
				"io.openliberty.features:a-1.0:" + ver,
				"io.openliberty.features:b-1.0:" + ver,
			},
		},
		installResps: []kernel.InstallResponse{
			{Kind: kernel.ResultError, Message: "CWWKF1500E: could not install a-1.0"},
			{Kind: kernel.ResultPayload, Installed: []string{"b-1.0"}},
		},
	}
	inst := newTestInstaller(t, ver, repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"a-1.0", "b-1.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "CWWKF1500E") {
		t.Fatalf("expected the first install error, got %v", err)
	}
	if len(k.installReqs) != 1 {
		t.Errorf("the loop must abort after the first failure, got %d installs", len(k.installReqs))
	}
}

func TestCloseErrorNeverMasksPrimaryError(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
	k := &fakeKernel{
		resolveResp: kernel.ResolveResponse{Kind: kernel.ResultError, Message: "CWWKF1203E: resolve failed"},
		closeErr:    errors.New("close failed"),
	}
	inst := newTestInstaller(t, "24.0.0.9", repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "CWWKF1203E") {
		t.Fatalf("the resolve error must win over the close error, got %v", err)
	}
}

func TestCloseErrorSurfacesWithoutPrimaryError(t *testing.T) {
	t.Parallel()

	repo := newCatalogRepo(t, "24.0.0.9", "mphealth-4.0")
	k := &fakeKernel{
		resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty},
		closeErr:    issue.Execution("could not release kernel resources after installing features"),
	}
	inst := newTestInstaller(t, "24.0.0.9", repo, k, nil)

	err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "release kernel resources") {
		t.Fatalf("expected the close error to surface, got %v", err)
	}
}

func TestProductValidationFailureIsFatal(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	repo := newCatalogRepo(t, ver, "mpHealth-4.0")
	addESA(t, repo, "mpHealth-4.0", ver)

	k := &fakeKernel{resolveResp: kernel.ResolveResponse{
		Kind:        kernel.ResultPayload,
		Coordinates: []string{"io.openliberty.features:mpHealth-4.0:" + ver},
	}}
	inst := newTestInstaller(t, ver, repo, k, func(o *Options) {
		o.Validator = product.NewValidator(o.InstallDir, product.WithExecCommand(
			func(ctx context.Context, name string, arg ...string) *exec.Cmd {
				return exec.CommandContext(ctx, "sh", "-c", "echo '[ERROR] invalid checksum'")
			}))
	})

	err := inst.InstallFeatures(context.Background(), true, []string{"mpHealth-4.0"}, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid checksum") {
		t.Fatalf("expected the validation failure, got %v", err)
	}
}
