// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared across redo
// packages, such as filesystem paths and process exit codes.
package types
