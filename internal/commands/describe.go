// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

// ErrDefinitionNotFound indicates a name no document defines.
var ErrDefinitionNotFound = errors.New("definition not found")

type describeOptions struct {
	format string
	pick   bool
}

func newDescribeCmd() *cobra.Command {
	opts := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe [NAME]",
		Short: "Show the specification or one of its definitions",
		Long: `Without a name, show a summary of the specification: its metadata, imported
documents and definitions. With a name, print that definition as the root
document or one of its imports declares it.`,
		Example: `  # Summarize the specification
  xddl describe

  # Print a definition as JSON
  xddl describe Person --format json

  # Pick a definition interactively
  xddl describe --pick`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: preRunProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" && opts.pick {
				if err := prompts.RunDefinitionSelect(&name, definitionNames(sc.Spec)); err != nil {
					return err
				}
			}
			if name == "" {
				return runDescribe(sc)
			}
			return runDescribeDefinition(cmd.OutOrStdout(), sc, name, opts.format)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", fmt.Sprintf("Output format (%s)", strings.Join(document.FormatNames(), ", ")))
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "Choose the definition interactively")

	return cmd
}

func runDescribe(sc *session.Context) error {
	spec := sc.Spec
	fields := []prompts.ResultField{
		{Label: "Title", Value: spec.Title},
		{Label: "Version", Value: spec.Version},
		{Label: "Description", Value: spec.Description},
		{Label: "Document", Value: spec.Source},
	}
	for _, imp := range spec.Documents()[1:] {
		fields = append(fields, prompts.ResultField{Label: "Imports", Value: imp.Source})
	}
	fields = append(fields,
		prompts.ResultField{Label: "Structures", Value: joinNames(spec.Structures())},
		prompts.ResultField{Label: "Enumerations", Value: joinNames(spec.Enumerations())},
	)
	prompts.PrintResult(fields, "")
	return nil
}

func runDescribeDefinition(w io.Writer, sc *session.Context, name, format string) error {
	def, doc, ok := sc.Plugins.Lookup(name)
	if !ok {
		def, doc, ok = lookupQualified(sc.Spec, name)
	}
	if !ok {
		return errors.Wrapf(ErrDefinitionNotFound, "%q", name)
	}

	text, err := formatDefinition(sc, def, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "# %s %s from %s\n%s", def.Kind(), def.DefinitionName(), doc.Source, text)
	return err
}

func formatDefinition(sc *session.Context, def model.Definition, format string) (string, error) {
	if format == "" {
		return sc.Plugins.Format(def)
	}
	f, err := document.FormatterFor(format)
	if err != nil {
		return "", err
	}
	b, err := f.Marshal(def)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// lookupQualified finds an imported definition by its document-qualified
// name, as the generators spell it.
func lookupQualified(spec *model.Specification, name string) (model.Definition, *model.Specification, bool) {
	for _, doc := range spec.Documents() {
		for _, d := range doc.Definitions() {
			if generate.QualifiedName(doc.TargetOf(d), false) == name {
				return d, doc, true
			}
		}
	}
	return nil, nil, false
}

// definitionNames lists every definition of the root document, then the
// imported ones under their qualified names.
func definitionNames(spec *model.Specification) []string {
	var names []string
	for i, doc := range spec.Documents() {
		for _, d := range doc.Definitions() {
			if i == 0 {
				names = append(names, d.DefinitionName())
				continue
			}
			names = append(names, generate.QualifiedName(doc.TargetOf(d), false))
		}
	}
	return names
}

func joinNames[D model.Definition](defs []D) string {
	if len(defs) == 0 {
		return "-"
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.DefinitionName()
	}
	return strings.Join(names, ", ")
}
