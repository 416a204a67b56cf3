// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"redo-cli/internal/finder"
	"redo-cli/internal/issue"
	"redo-cli/internal/watch"
	"redo-cli/pkg/dofile"
	"redo-cli/pkg/types"

	"github.com/spf13/cobra"
)

type whichdoFlagValues struct {
	watch bool
	order string
	quiet bool
}

// newWhichdoCommand creates `redo whichdo`, which prints each candidate
// that was checked and missing, then the do-file that exists.
func newWhichdoCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &whichdoFlagValues{}

	cmd := &cobra.Command{
		Use:   "whichdo <target>",
		Short: "Show which do-file builds a target",
		Long: `Show which do-file builds a target.

Every candidate checked before the match is printed, one per line, followed
by the do-file that exists. When no do-file exists the command exits with
status 1. With --watch the lookup re-runs whenever a do-file appears,
changes, or disappears in a directory that could hold one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhichdo(cmd, app, rootFlags, flags, args[0])
		},
	}

	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-run the lookup when do-files change")
	cmd.Flags().StringVar(&flags.order, "order", "", "search order override (extension or directory)")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only the matched do-file")

	return cmd
}

func runWhichdo(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *whichdoFlagValues, target string) error {
	ctx := cmd.Context()

	s, err := app.newSession(ctx, rootFlags)
	if err != nil {
		return err
	}
	f, err := app.finder(s, flags.order)
	if err != nil {
		return err
	}

	lookupErr := lookup(ctx, app, s, f, flags, cmd.OutOrStdout(), target)
	if !flags.watch {
		return lookupErr
	}

	var exitErr *ExitError
	if errors.As(lookupErr, &exitErr) && exitErr.Code == types.ExitUsage {
		return lookupErr
	}
	return watchLookup(ctx, app, s, f, flags, cmd.OutOrStdout(), target)
}

// lookup runs one Find and prints its result.
func lookup(ctx context.Context, app *App, s *session, f *finder.Finder, flags *whichdoFlagValues, w io.Writer, target string) error {
	match, err := f.Find(ctx, target)

	var noDo *finder.NoDoFileError
	switch {
	case err == nil:
		if !flags.quiet {
			for _, p := range match.Tried {
				fmt.Fprintln(w, p)
			}
		}
		fmt.Fprintln(w, SuccessStyle.Render(match.Path))
		s.logger.Info("do-file found", "target", target, "path", match.Path, "base", match.Base)
		return nil

	case errors.As(err, &noDo):
		if !flags.quiet {
			for _, p := range noDo.Tried {
				fmt.Fprintln(w, p)
			}
		}
		if rendered, renderErr := issue.Get(issue.NoDoFileFoundId).Render(s.cfg.UI.ColorScheme.GlamourStyle()); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return &ExitError{Code: types.ExitFailure, Err: err}

	case errors.Is(err, dofile.ErrInvalidTarget), errors.Is(err, dofile.ErrInvalidPath):
		return targetError(app, s, target, err)

	default:
		return issue.NewErrorContext().
			WithOperation("find do-file").
			WithResource(target).
			WithSuggestion("Check that the candidate directories are readable").
			Wrap(err).
			BuildError()
	}
}

// watchLookup re-runs lookup whenever a do-file changes in one of the
// target's candidate directories. It blocks until ctx is cancelled.
func watchLookup(ctx context.Context, app *App, s *session, f *finder.Finder, flags *whichdoFlagValues, w io.Writer, target string) error {
	dirs, err := f.Dirs(target)
	if err != nil {
		return targetError(app, s, target, err)
	}
	for i, d := range dirs {
		if !filepath.IsAbs(d) {
			dirs[i] = filepath.Join(s.cwd.String(), d)
		}
	}

	debounce, err := s.cfg.Watch.DebounceDuration()
	if err != nil {
		return err
	}

	watcher, err := watch.New(watch.Config{
		Dirs:        dirs,
		Patterns:    s.cfg.Watch.Patterns,
		Ignore:      s.cfg.Watch.Ignore,
		Debounce:    debounce,
		ClearScreen: s.cfg.Watch.ClearScreen,
		Stdout:      w,
		Logger:      s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Debug("do-files changed", "paths", changed)
			fmt.Fprintln(w, SubtitleStyle.Render(fmt.Sprintf("--- %d change(s), re-running lookup", len(changed))))
			err := lookup(ctx, app, s, f, flags, w, target)
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Code == types.ExitFailure {
				return nil
			}
			return err
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render(fmt.Sprintf("watching %d director(ies) for do-file changes; press Ctrl+C to stop", len(watcher.Watched()))))
	return watcher.Run(ctx)
}
