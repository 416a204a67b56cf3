// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"path/filepath"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// ErrNoConfigRoot is returned when no configuration root can be derived.
var ErrNoConfigRoot = errors.New("unable to determine configuration root")

// Env supplies the process environment to ConfigRoot.
type Env struct {
	// Getenv looks up an environment variable (os.Getenv in production).
	Getenv func(key string) string
	// HomeDir returns the user's home directory (os.UserHomeDir in production).
	HomeDir func() (string, error)
}

// ConfigRoot returns the per-user configuration root for goos:
// %APPDATA% on Windows (falling back to %USERPROFILE%\AppData\Roaming),
// ~/Library/Application Support on macOS, and $XDG_CONFIG_HOME (falling
// back to ~/.config) elsewhere.
func ConfigRoot(goos string, env Env) (string, error) {
	switch goos {
	case Windows:
		if dir := env.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		if profile := env.Getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "AppData", "Roaming"), nil
		}
		return "", ErrNoConfigRoot
	case Darwin:
		home, err := env.HomeDir()
		if err != nil {
			return "", errors.Join(ErrNoConfigRoot, err)
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if dir := env.Getenv("XDG_CONFIG_HOME"); dir != "" {
			return dir, nil
		}
		home, err := env.HomeDir()
		if err != nil {
			return "", errors.Join(ErrNoConfigRoot, err)
		}
		return filepath.Join(home, ".config"), nil
	}
}
