// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestScenarioError(t *testing.T) {
	t.Parallel()

	err := Scenario("install kernel module not found")
	if !errors.Is(err, ErrScenario) {
		t.Error("ScenarioError must match ErrScenario")
	}
	if errors.Is(err, ErrExecution) {
		t.Error("ScenarioError must not match ErrExecution")
	}
	if got := err.Error(); got != "install kernel module not found" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExecutionErrorWrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := ExecutionWrap(cause, "could not download artifact %s", "io.openliberty.features:servlet-6.0:24.0.0.8")
	if !errors.Is(err, ErrExecution) {
		t.Error("ExecutionError must match ErrExecution")
	}
	if !errors.Is(err, cause) {
		t.Error("ExecutionError must preserve its cause in the chain")
	}
	if !strings.Contains(err.Error(), "servlet-6.0") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, missing context", err.Error())
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	inner := errors.New("no such file or directory")
	ae := WrapWithContext(inner, "read product properties", "/opt/runtime/lib/versions").
		WithSuggestion("Check that the install directory contains a runtime installation")

	plain := ae.Format(false)
	if !strings.Contains(plain, "failed to read product properties") {
		t.Errorf("Format(false) = %q, missing operation", plain)
	}
	if !strings.Contains(plain, "•") {
		t.Errorf("Format(false) = %q, missing suggestion bullet", plain)
	}

	verbose := ae.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) = %q, missing error chain", verbose)
	}
	if !errors.Is(ae, inner) {
		t.Error("ActionableError must unwrap to its cause")
	}
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	if ForId(KernelModuleNotFoundId) == nil {
		t.Fatal("KernelModuleNotFoundId missing from catalog")
	}
	all := All()
	if len(all) != len(registry) {
		t.Fatalf("All() returned %d entries, want %d", len(all), len(registry))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Id() >= all[i].Id() {
			t.Fatal("All() entries not ordered by id")
		}
	}
}
