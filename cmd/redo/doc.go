// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for redo.
//
// It implements the Cobra command hierarchy: candidate listing, do-file
// lookup (optionally watching for changes), configuration management, and
// the issue catalog.
package cmd
