// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/huh"
)

// InitAnswers holds the values collected by RunInitForm.
type InitAnswers struct {
	Title     string
	Version   string
	SpecPath  string
	Format    string
	Structure string
	Plugins   []string
}

// RunInitForm runs the interactive form for the init command. Fields of
// answers that are already set are used as defaults.
func RunInitForm(answers *InitAnswers, plugins []string) error {
	options := make([]huh.Option[string], len(plugins))
	for i, p := range plugins {
		options[i] = huh.NewOption(p, p)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Specification title").
				Prompt(": ").
				Inline(true).
				Validate(requiredValidator("title")).
				Value(&answers.Title),
			huh.NewInput().
				Title("Version").
				Prompt(": ").
				Inline(true).
				Placeholder("1.0.0").
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					_, err := semver.NewVersion(s)
					return err
				}).
				Value(&answers.Version),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Path for the specification").
				Placeholder("spec/main.xddl.yaml").
				Validate(requiredValidator("spec path")).
				Value(&answers.SpecPath),
			huh.NewSelect[string]().
				Title("Specification format").
				Options(
					huh.NewOption("YAML (recommended)", "yaml"),
					huh.NewOption("JSON", "json"),
					huh.NewOption("TOML", "toml"),
				).
				Value(&answers.Format),
			huh.NewInput().
				Title("First structure").
				Placeholder("e.g., Person").
				Validate(identifierValidator(map[string]struct{}{})).
				Value(&answers.Structure),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Generators to enable").
				Options(options...).
				Value(&answers.Plugins),
		).WithHideFunc(func() bool { return len(plugins) == 0 }),
	).WithTheme(Theme()).Run()
}
