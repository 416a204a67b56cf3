// SPDX-License-Identifier: MPL-2.0

// Package platform holds the OS-specific conventions redo depends on,
// such as where per-user configuration lives.
package platform
