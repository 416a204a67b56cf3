// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"redo-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newIssueCommand creates `redo issue`, which renders pages from the issue
// catalog.
func newIssueCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "issue [id]",
		Short: "Explain a redo error",
		Long: `Explain a redo error.

Without an id, lists the catalog. With an id, renders that page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, is := range issue.Values() {
					fmt.Fprintf(w, "%s  %s\n", CmdStyle.Render(strconv.Itoa(int(is.Id()))), is.Title())
				}
				return nil
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return usageError("issue id must be a number, got %q", args[0])
			}
			is := issue.Get(issue.Id(n))
			if is == nil {
				return usageError("unknown issue id %d", n)
			}
			rendered, err := is.Render(style)
			if err != nil {
				return fmt.Errorf("render issue %d: %w", n, err)
			}
			fmt.Fprint(w, rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "auto", "glamour style (auto, dark, light, notty)")
	return cmd
}
