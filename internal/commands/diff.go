// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/diff"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

// ErrSpecsDiffer is returned by diff when the specifications differ.
var ErrSpecsDiffer = errors.New("specifications differ")

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff LEFT RIGHT",
		Short: "Compare the fields of two specifications",
		Long: `Load and resolve two specification documents and list every field path that
was removed, added or changed its type between them. Paths start at each
top-level structure and follow references, lists and inline structures.
Exits non-zero when the specifications differ.`,
		Example: `  # Compare two releases of a specification
  xddl diff v1/people.xddl.yaml v2/people.xddl.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			specs := make([]*model.Specification, len(args))
			for i, path := range args {
				sc, err := session.LoadFile(cmd.Context(), cwd, path)
				if err != nil {
					ps := problems(err)
					prompts.PrintProblems(fmt.Sprintf("%s: %d problem(s) found", path, len(ps)), ps)
					return err
				}
				specs[i] = sc.Spec
			}
			return runDiff(cmd.OutOrStdout(), specs[0], specs[1])
		},
	}
}

func runDiff(w io.Writer, left, right *model.Specification) error {
	changes := diff.Compare(left, right)
	if len(changes) == 0 {
		_, err := fmt.Fprintln(w, "No differences")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CHANGE\tPATH\tLEFT\tRIGHT")
	for _, c := range changes {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Kind(), c.Path, side(c.Left), side(c.Right)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Wrapf(ErrSpecsDiffer, "%d change(s)", len(changes))
}

func side(e *diff.Element) string {
	if e == nil {
		return "-"
	}
	return e.String()
}
