// SPDX-License-Identifier: MPL-2.0

package kernel

import "context"

// Loader locates and loads the kernel module as a Kernel capability. The
// capability is either fully present or construction fails with a scenario
// error; callers never probe a half-loaded kernel.
type Loader struct {
	Locator *Locator

	// NewChannel overrides channel construction, for tests. The default
	// spawns the module as a subprocess (ModuleChannel).
	NewChannel func(ctx context.Context, modulePath string) (Channel, error)
}

// Load locates the kernel module, opens a command channel to it, and seeds
// the channel with the runtime install directory and the resolver bundle
// override (when one exists).
func (l *Loader) Load(ctx context.Context) (Kernel, error) {
	modulePath, err := l.Locator.ModulePath(ctx)
	if err != nil {
		return nil, err
	}
	bundle, err := l.Locator.OverrideBundleDescriptor(ctx)
	if err != nil {
		return nil, err
	}

	newChannel := l.NewChannel
	if newChannel == nil {
		newChannel = func(ctx context.Context, modulePath string) (Channel, error) {
			return NewModuleChannel(ctx, modulePath), nil
		}
	}
	ch, err := newChannel(ctx, modulePath)
	if err != nil {
		return nil, err
	}

	ch.Put(keyRuntimeInstallDir, l.Locator.InstallDir)
	if bundle != "" {
		ch.Put(keyOverrideBundles, bundle)
	}
	return NewKernel(ch), nil
}
