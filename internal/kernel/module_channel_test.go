// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

// fakeModule returns an ExecCommandFunc that replaces the java invocation
// with a shell snippet. The snippet receives the JSON command on stdin.
func fakeModule(script string) ExecCommandFunc {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
}

func TestModuleChannelInvokesOnActionRead(t *testing.T) {
	t.Parallel()

	// The fake module echoes the stdin payload under "echoed" so the test
	// can check what the channel sent.
	script := `printf '{"action.result":["io.openliberty.features:a:1.0"],"echoed":"'; cat | tr -d '"' | tr -d '\n'; printf '"}'`
	ch := NewModuleChannel(context.Background(), "/wlp/lib/com.ibm.ws.install.map_1.0.jar",
		WithExecCommand(fakeModule(script)))

	ch.Put(keyFeaturesToResolve, []string{"a"})
	result := ch.Get(keyActionResult)

	coords, ok := result.([]string)
	if !ok || len(coords) != 1 || coords[0] != "io.openliberty.features:a:1.0" {
		t.Fatalf("unexpected action result: %v", result)
	}
	echoed, _ := ch.Get("echoed").(string)
	if !strings.Contains(echoed, keyFeaturesToResolve) {
		t.Errorf("expected the pending inputs to reach the module, got %q", echoed)
	}
	if !strings.Contains(echoed, "action:action.result") {
		t.Errorf("expected the action key in the payload, got %q", echoed)
	}
}

func TestModuleChannelNonActionReadDoesNotInvoke(t *testing.T) {
	t.Parallel()

	ch := NewModuleChannel(context.Background(), "module.jar",
		WithExecCommand(fakeModule("echo should-not-run >&2; exit 1")))

	if got := ch.Get(keyActionErrorMessage); got != nil {
		t.Fatalf("expected no output before an action read, got %v", got)
	}
}

func TestModuleChannelProcessFailure(t *testing.T) {
	t.Parallel()

	ch := NewModuleChannel(context.Background(), "module.jar",
		WithExecCommand(fakeModule("echo boom >&2; exit 2")))

	if got := ch.Get(keyActionResult); got != nil {
		t.Fatalf("expected a nil action result on process failure, got %v", got)
	}
	msg, _ := ch.Get(keyActionErrorMessage).(string)
	if !strings.Contains(msg, "boom") {
		t.Errorf("expected stderr in the error message, got %q", msg)
	}
}

func TestModuleChannelMalformedResponse(t *testing.T) {
	t.Parallel()

	ch := NewModuleChannel(context.Background(), "module.jar",
		WithExecCommand(fakeModule("echo 'not json'")))

	ch.Get(keyActionResult)
	msg, _ := ch.Get(keyActionErrorMessage).(string)
	if !strings.Contains(msg, "decode") {
		t.Errorf("expected a decode error, got %q", msg)
	}
}

func TestModuleChannelClearsPendingBetweenCommands(t *testing.T) {
	t.Parallel()

	script := `printf '{"echoed":"'; cat | tr -d '"' | tr -d '\n'; printf '"}'`
	ch := NewModuleChannel(context.Background(), "module.jar",
		WithExecCommand(fakeModule(script)))

	ch.Put(keyFeaturesToResolve, []string{"a"})
	ch.Get(keyActionResult)

	ch.Put(keyActionVerify, []string{"/tmp/a.esa"})
	ch.Get(keyActionResult)

	echoed, _ := ch.Get("echoed").(string)
	if strings.Contains(echoed, keyFeaturesToResolve) {
		t.Errorf("inputs from the first command leaked into the second: %q", echoed)
	}
	if !strings.Contains(echoed, keyActionVerify) {
		t.Errorf("expected the second command's inputs, got %q", echoed)
	}
}
