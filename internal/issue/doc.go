// SPDX-License-Identifier: MPL-2.0

// Package issue defines the error taxonomy for feature installation and a
// small catalog of user-facing issue explanations rendered as markdown.
//
// Two top-level error kinds exist. A scenario error means a precondition of
// the requested installation cannot be satisfied (no kernel module found,
// unsupported option combination); it aborts before any mutation and is
// never retried. An execution error is a runtime failure during
// resolve/download/verify/install/validate and always propagates to the
// caller with a human-readable message.
package issue
