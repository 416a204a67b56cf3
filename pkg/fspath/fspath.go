// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so callers get typed-in/typed-out
// path operations for OS-level paths (config files, working directories).
//
// Do-file candidate paths are NOT built with these helpers: filepath.Join
// cleans its result, which would collapse the literal ".." segments the
// resolver emits. See dofile.PathStyle.Join for that.
package fspath

import (
	"fmt"
	"os"
	"path/filepath"

	"redo-cli/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as file-name constants.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Getwd wraps os.Getwd, returning the process working directory as a
// validated FilesystemPath.
func Getwd() (types.FilesystemPath, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determining working directory: %w", err)
	}
	p := types.FilesystemPath(wd)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}
