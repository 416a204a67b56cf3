// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"redo-cli/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger builds the process logger: a charmbracelet/log handler behind
// slog. Verbose lowers the level to debug regardless of configuration.
func newLogger(w io.Writer, cfg config.LogConfig, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if parsed, err := log.ParseLevel(string(cfg.Level)); err == nil {
		level = parsed
	}
	if verbose {
		level = log.DebugLevel
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case config.LogFormatJSON:
		formatter = log.JSONFormatter
	case config.LogFormatLogfmt:
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		Prefix:          config.AppName,
		ReportTimestamp: formatter != log.TextFormatter,
	})
	return slog.New(handler)
}
