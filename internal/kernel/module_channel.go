// SPDX-License-Identifier: MPL-2.0

package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// ModuleChannel drives a kernel module in a subprocess. Inputs accumulate
// until an action key is read; the read flushes them to the module as a
// JSON object on stdin and decodes a JSON object of outputs from stdout.
// The protocol keys are exactly the kernel's map keys.
type ModuleChannel struct {
	ctx         context.Context
	modulePath  string
	execCommand ExecCommandFunc
	pending     map[string]any
	outputs     map[string]any
}

// ModuleChannelOption configures a ModuleChannel.
type ModuleChannelOption func(*ModuleChannel)

// WithExecCommand injects a command factory, for tests.
func WithExecCommand(f ExecCommandFunc) ModuleChannelOption {
	return func(c *ModuleChannel) { c.execCommand = f }
}

// NewModuleChannel creates a channel around the kernel module at
// modulePath. The context bounds every command the channel issues.
func NewModuleChannel(ctx context.Context, modulePath string, opts ...ModuleChannelOption) *ModuleChannel {
	c := &ModuleChannel{
		ctx:         ctx,
		modulePath:  modulePath,
		execCommand: exec.CommandContext,
		pending:     make(map[string]any),
		outputs:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Put implements Channel.
func (c *ModuleChannel) Put(key string, value any) {
	c.pending[key] = value
}

// Get implements Channel. Reading an action key invokes the module with the
// pending inputs; any other key reads a previously produced output.
func (c *ModuleChannel) Get(key string) any {
	if key == keyActionResult || key == keyDownloadKeys {
		c.invoke(key)
	}
	return c.outputs[key]
}

// Close implements Channel.
func (c *ModuleChannel) Close() error {
	c.pending = make(map[string]any)
	c.outputs = make(map[string]any)
	return nil
}

// invoke runs one kernel command. A process-level failure surfaces through
// the error-message output key, the same path kernel-reported errors take.
func (c *ModuleChannel) invoke(actionKey string) {
	payload := make(map[string]any, len(c.pending)+1)
	for k, v := range c.pending {
		payload[k] = v
	}
	payload["action"] = actionKey
	c.pending = make(map[string]any)

	input, err := json.Marshal(payload)
	if err != nil {
		c.fail(fmt.Sprintf("could not encode the kernel command: %v", err))
		return
	}

	cacheFlag := "-Dfeatctl.module.cache=false"
	if JarCacheEnabled() {
		cacheFlag = "-Dfeatctl.module.cache=true"
	}

	var stdout, stderr bytes.Buffer
	cmd := c.execCommand(c.ctx, "java", cacheFlag, "-jar", c.modulePath, "--channel")
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.fail(fmt.Sprintf("kernel module %s failed: %v: %s", c.modulePath, err, stderr.String()))
		return
	}

	var outputs map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &outputs); err != nil {
		c.fail(fmt.Sprintf("could not decode the kernel response: %v", err))
		return
	}
	// Coordinate and identifier lists arrive as []any; the typed layer
	// expects []string.
	for k, v := range outputs {
		outputs[k] = normalizeStrings(v)
	}
	c.outputs = outputs
}

func (c *ModuleChannel) fail(msg string) {
	c.outputs = map[string]any{keyActionErrorMessage: msg}
}

func normalizeStrings(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return v
		}
		strs = append(strs, s)
	}
	return strs
}
