// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"redo-cli/internal/config"
	"redo-cli/internal/issue"
	"redo-cli/pkg/types"

	"github.com/spf13/cobra"
)

const (
	dumpFormatCUE  = "cue"
	dumpFormatTOML = "toml"
)

// newConfigCommand creates the `redo config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage redo configuration",
		Long: `Manage redo configuration.

Configuration is stored in:
  - Linux: ~/.config/redo/config.cue
  - macOS: ~/Library/Application Support/redo/config.cue
  - Windows: %APPDATA%\redo\config.cue

A config.cue in the working directory is used when none exists there.
Any key can be overridden with a REDO_ environment variable, e.g.
REDO_SEARCH_ORDER=directory or REDO_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			path, err := config.FilePath()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config directory: %s\n", dir)
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", path)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case dumpFormatCUE:
				fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(s.cfg))
			case dumpFormatTOML:
				out, err := config.GenerateTOML(s.cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
			default:
				return usageError("unknown --format %q (expected %s or %s)", format, dumpFormatCUE, dumpFormatTOML)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", dumpFormatCUE, "output format (cue or toml)")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App, rootFlags *rootFlagValues) error {
	s, err := app.newSession(cmd.Context(), rootFlags)
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark"); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, rootFlags.verbose))
		return &ExitError{Code: types.ExitUsage, Err: err}
	}
	cfg := s.cfg

	w := cmd.OutOrStdout()
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if s.source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), s.source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("search_order"), valueStyle.Render(cfg.SearchOrder.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("path"))
	fmt.Fprintf(w, "  separator: %s\n", valueStyle.Render(cfg.Path.Separator))
	fmt.Fprintf(w, "  parent: %s\n", valueStyle.Render(cfg.Path.Parent))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(string(cfg.Log.Format)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce))
	fmt.Fprintf(w, "  patterns: %s\n", valueStyle.Render(listOrNone(cfg.Watch.Patterns)))
	fmt.Fprintf(w, "  ignore: %s\n", valueStyle.Render(listOrNone(cfg.Watch.Ignore)))
	fmt.Fprintf(w, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
