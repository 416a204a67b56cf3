// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// remediation hints. The issue catalog holds Markdown help pages for the
// failures a redo user is most likely to hit; they are rendered for the
// terminal with glamour.
package issue
