// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"redo-cli/internal/issue"
	"redo-cli/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// ExitError carries the process exit code for a failed command so RunE
// handlers never call os.Exit themselves.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + e.Code.String()
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError reports invalid flags or arguments.
func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf(format, args...)}
}

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
	workdir    string
	logLevel   string
}

// NewRootCommand builds the redo command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "redo",
		Short: "Locate the do-file that builds a target",
		Long: TitleStyle.Render("redo") + SubtitleStyle.Render(" - do-file resolution for redo builds") + `

redo finds the build recipe ("do-file") for a target by searching, in
order: target.do next to the target, do/ directories that mirror the
target's location, and default.<ext>.do recipes from the longest
extension down to default.do in every parent directory.

` + SubtitleStyle.Render("Examples:") + `
  redo candidates out/app.tar.gz   List every candidate, most specific first
  redo whichdo out/app.tar.gz      Show which do-file would build the target
  redo whichdo -w out/app.tar.gz   Keep watching for do-file changes
  redo config show                 Show current configuration`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/redo/config.cue)")
	pf.StringVarP(&flags.workdir, "cwd", "C", "", "resolve targets relative to this directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newCandidatesCommand(app, flags))
	rootCmd.AddCommand(newWhichdoCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))
	rootCmd.AddCommand(newIssueCommand())

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the redo CLI and exits the process with the command's exit
// code. It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	app.globalLogger = true
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps a command error onto the process exit code.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own formatting, which includes the full chain in verbose mode.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
