// SPDX-License-Identifier: MPL-2.0

// Package kernel adapts the separately versioned resolver kernel module:
// the component that performs actual feature dependency resolution and
// low-level installation. The kernel is located dynamically (newest
// compatible module wins), loaded as a capability exposing a key-value
// command channel, and driven through typed resolve / verify /
// download-public-keys / install commands. Feature dependency graphs are
// never computed here; the kernel owns them.
package kernel
