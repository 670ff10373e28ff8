// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

type validateOptions struct {
	spec string
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a specification parses and resolves",
		Long: `Parse the specification with everything it imports, resolve every reference
and report all problems found. Exits non-zero when the specification is invalid.`,
		Example: `  # Validate the project specification
  xddl validate

  # Validate a standalone document
  xddl validate --spec spec/people.xddl.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadTarget(cmd, opts.spec)
			if err != nil {
				ps := problems(err)
				prompts.PrintProblems(fmt.Sprintf("%d problem(s) found", len(ps)), ps)
				return err
			}
			return runValidate(sc)
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "Path to a specification document (defaults to the project spec)")

	return cmd
}

func runValidate(sc *session.Context) error {
	spec := sc.Spec
	title := spec.Title
	if title == "" {
		title = spec.Source
	}
	version := spec.Version
	if version == "" {
		version = "-"
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Specification", Value: title},
		{Label: "Version", Value: version},
		{Label: "Documents", Value: strconv.Itoa(len(spec.Documents()))},
		{Label: "Structures", Value: strconv.Itoa(len(spec.Structures()))},
		{Label: "Enumerations", Value: strconv.Itoa(len(spec.Enumerations()))},
	}, "Specification is valid")
	return nil
}
