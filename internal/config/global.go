// SPDX-License-Identifier: MPL-2.0

package config

import "redo-cli/pkg/types"

// configDirOverride allows tests to override the config directory, since
// os.UserHomeDir() does not reliably respect HOME on every platform.
var configDirOverride types.FilesystemPath

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path for tests.
func SetConfigDirOverride(dir types.FilesystemPath) {
	configDirOverride = dir
}
