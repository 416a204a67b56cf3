// SPDX-License-Identifier: MPL-2.0

// Package config handles redo configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/redo/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/redo/config.cue on
// macOS, %APPDATA%\redo\config.cue on Windows). Files are validated against
// the embedded #Config schema; REDO_* environment variables override file
// values (REDO_SEARCH_ORDER, REDO_LOG_LEVEL, ...).
package config
