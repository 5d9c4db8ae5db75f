// SPDX-License-Identifier: MPL-2.0

// featctl installs optional feature packages into a Liberty-style
// application-server runtime, either through the runtime's resolver kernel
// or inside a running development-mode container.
package main

func main() {
	Execute()
}
