// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"redo-cli/internal/issue"
	"redo-cli/pkg/dofile"
	"redo-cli/pkg/types"

	"github.com/spf13/cobra"
)

type (
	candidatesFlagValues struct {
		limit  int
		json   bool
		order  string
		counts bool
	}

	// candidateJSON is the --json encoding of one candidate.
	candidateJSON struct {
		Path string `json:"path"`
		Dir  string `json:"dir"`
		Name string `json:"name"`
		Ext  string `json:"ext"`
		Base string `json:"base"`
	}
)

// newCandidatesCommand creates `redo candidates`. It lists candidates
// without touching the filesystem.
func newCandidatesCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &candidatesFlagValues{}

	cmd := &cobra.Command{
		Use:   "candidates <target>",
		Short: "List every do-file location checked for a target",
		Long: `List every do-file location redo checks for a target, most specific
first. The filesystem is not consulted; use 'redo whichdo' to find the
do-file that actually exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCandidates(cmd, app, rootFlags, flags, args[0])
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 0, "stop after this many candidates (0 lists all)")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print candidates as a JSON array")
	cmd.Flags().StringVar(&flags.order, "order", "", "search order override (extension or directory)")
	cmd.Flags().BoolVar(&flags.counts, "count", false, "print only the number of candidates")

	return cmd
}

func runCandidates(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *candidatesFlagValues, target string) error {
	if flags.limit < 0 {
		return usageError("--limit must not be negative, got %d", flags.limit)
	}

	s, err := app.newSession(cmd.Context(), rootFlags)
	if err != nil {
		return err
	}
	f, err := app.finder(s, flags.order)
	if err != nil {
		return err
	}

	seq, err := f.Candidates(target)
	if err != nil {
		return targetError(app, s, target, err)
	}

	style := s.cfg.Style()
	dir, name := style.Split(target)

	if flags.counts && flags.limit == 0 {
		depth := len(style.DirParts(dir, s.cwd.String()))
		fmt.Fprintln(cmd.OutOrStdout(), dofile.Count(depth, len(dofile.DefaultChain(name))))
		return nil
	}

	var out []candidateJSON
	for c := range seq {
		if flags.limit > 0 && len(out) == flags.limit {
			break
		}
		out = append(out, candidateJSON{
			Path: style.Join(c.Dir, c.Name),
			Dir:  c.Dir,
			Name: c.Name,
			Ext:  c.Ext,
			Base: c.Base(name),
		})
	}

	w := cmd.OutOrStdout()
	switch {
	case flags.counts:
		fmt.Fprintln(w, len(out))
	case flags.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if out == nil {
			out = []candidateJSON{}
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode candidates: %w", err)
		}
	default:
		for _, c := range out {
			fmt.Fprintln(w, c.Path)
		}
	}
	return nil
}

// targetError renders the catalog page for a rejected target and wraps err
// as a usage failure.
func targetError(app *App, s *session, target string, err error) error {
	if errors.Is(err, dofile.ErrInvalidTarget) {
		if rendered, renderErr := issue.Get(issue.InvalidTargetId).Render(s.cfg.UI.ColorScheme.GlamourStyle()); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
	}
	return &ExitError{
		Code: types.ExitUsage,
		Err: issue.NewErrorContext().
			WithOperation("resolve do-file candidates").
			WithResource(target).
			Wrap(err).
			BuildError(),
	}
}
