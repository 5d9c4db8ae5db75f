// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"featctl/internal/kernel"
)

func writeESA(t *testing.T, symbolic, short string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), symbolic+".esa")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("OSGI-INF/SUBSYSTEM.MF")
	if err != nil {
		t.Fatal(err)
	}
	manifest := "Subsystem-SymbolicName: " + symbolic + ";visibility:=public\r\n"
	if short != "" {
		manifest += "IBM-ShortName: " + short + "\r\n"
	}
	manifest += "\r\n"
	if _, err := w.Write([]byte(manifest)); err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Create("wlp/usr/extension/lib/my.bundle_1.0.jar"); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// Runtimes too old to install user features through the kernel fall back to
// manual archive extraction, and features placed that way are skipped when
// requested again by extension-qualified name.
func TestManualFallbackForOldRuntime(t *testing.T) {
	t.Parallel()

	const ver = "21.0.0.9" // below the user-feature threshold
	esaPath := writeESA(t, "com.example.myFeature", "myFeature")
	repo := newCatalogRepo(t, ver, "mphealth-4.0")

	inst := newTestInstaller(t, ver, repo, &fakeKernel{}, func(o *Options) {
		o.PluginESAs = []string{esaPath}
		o.LoadKernel = func(context.Context) (kernel.Kernel, error) {
			t.Error("the kernel must not be loaded when everything was manually installed")
			return nil, errors.New("unreachable")
		}
	})

	err := inst.InstallFeatures(context.Background(), true, []string{"usr:myFeature"}, nil)
	if err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}

	manifest := filepath.Join(inst.installDir, "usr", "extension", "lib", "features", "com.example.myFeature.mf")
	if _, err := os.Stat(manifest); err != nil {
		t.Errorf("expected the feature manifest at %s: %v", manifest, err)
	}
	if !inst.manual.Contains("myfeature") {
		t.Error("the short name must be recorded in the manual-install map")
	}
	if !inst.manual.Contains("COM.EXAMPLE.MYFEATURE") {
		t.Error("the symbolic name must be recorded case-insensitively")
	}
}

// A runtime at or above the threshold queues plugin archives for kernel
// resolution instead of extracting them manually.
func TestPluginESAsQueuedForModernRuntime(t *testing.T) {
	t.Parallel()

	const ver = "24.0.0.9"
	esaPath := writeESA(t, "com.example.myFeature", "myFeature")
	repo := newCatalogRepo(t, ver, "mphealth-4.0")

	k := &fakeKernel{resolveResp: kernel.ResolveResponse{Kind: kernel.ResultEmpty}}
	inst := newTestInstaller(t, ver, repo, k, func(o *Options) {
		o.PluginESAs = []string{esaPath}
	})

	if err := inst.InstallFeatures(context.Background(), true, nil, nil); err != nil {
		t.Fatalf("InstallFeatures: %v", err)
	}
	if len(k.resolveReqs) != 1 {
		t.Fatalf("expected one resolve, got %d", len(k.resolveReqs))
	}
	req := k.resolveReqs[0]
	if len(req.Features) != 1 || req.Features[0] != esaPath {
		t.Errorf("expected the archive path among the features, got %v", req.Features)
	}
	if len(req.IndividualESAs) != 1 || req.IndividualESAs[0] != esaPath {
		t.Errorf("expected the archive as an individual ESA, got %v", req.IndividualESAs)
	}
	manifest := filepath.Join(inst.installDir, "usr", "extension", "lib", "features", "com.example.myFeature.mf")
	if _, err := os.Stat(manifest); !os.IsNotExist(err) {
		t.Error("no manual extraction may happen on a modern runtime")
	}
}
