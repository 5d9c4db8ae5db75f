// SPDX-License-Identifier: MPL-2.0

package kernel

import "sync"

// The module-loading layer caches downloaded module jars process-wide.
// During an orchestration run the cache must be off so module files close
// promptly when the kernel is released. The toggle is process-global:
// concurrent orchestration runs in the same process (parallel build
// modules) share it, so mutation is serialized and only the first guard of
// an overlapping set saves and restores the original state.
var (
	cacheMu         sync.Mutex
	jarCacheEnabled = true
	savedCacheState *bool
)

// CacheGuard represents one run's claim on the jar-cache toggle. Restore
// must be called in a guaranteed-cleanup phase even when the run fails.
type CacheGuard struct {
	owner    bool
	restored bool
}

// DisableJarCache saves the current cache state (once across overlapping
// runs), forces caching off, and returns a guard that restores the saved
// state.
func DisableJarCache() *CacheGuard {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	g := &CacheGuard{}
	if savedCacheState == nil {
		saved := jarCacheEnabled
		savedCacheState = &saved
		g.owner = true
	}
	jarCacheEnabled = false
	return g
}

// Restore puts the toggle back to its saved state. Only the guard that
// performed the save restores; calling Restore more than once is a no-op.
func (g *CacheGuard) Restore() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if g.restored {
		return
	}
	g.restored = true
	if g.owner && savedCacheState != nil {
		jarCacheEnabled = *savedCacheState
		savedCacheState = nil
	}
}

// JarCacheEnabled reports the current state of the toggle. The module
// channel propagates it to kernel subprocesses.
func JarCacheEnabled() bool {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	return jarCacheEnabled
}
