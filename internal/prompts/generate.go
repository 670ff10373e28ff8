// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// RunPluginSelect asks which plugins to run. describe returns the one-line
// description shown next to each name.
func RunPluginSelect(selected *[]string, available []string, describe func(string) string) error {
	options := make([]huh.Option[string], len(available))
	for i, name := range available {
		label := name
		if d := describe(name); d != "" {
			label = name + " " + Muted("- "+d)
		}
		options[i] = huh.NewOption(label, name)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Generators").
				Options(options...).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("select at least one generator")
					}
					return nil
				}).
				Value(selected),
		),
	).WithTheme(Theme()).Run()
}

// RunDefinitionSelect asks for one of names.
func RunDefinitionSelect(value *string, names []string) error {
	options := make([]huh.Option[string], len(names))
	for i, n := range names {
		options[i] = huh.NewOption(n, n)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Definition").
				Options(options...).
				Filtering(true).
				Height(10).
				Value(value),
		),
	).WithTheme(Theme()).Run()
}
