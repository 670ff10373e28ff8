// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/config"
	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
)

type initOptions struct {
	prompts.InitAnswers
	nonInteractive bool
}

func newInitCmd(catalog *plugin.Catalog) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new xddl project",
		Long: `Initialize a new xddl project with an xddl.yaml configuration file and a
starter specification document.`,
		Example: `  # Interactive mode
  xddl init

  # Non-interactive
  xddl init --title "People" --structure Person --plugin markdown --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current directory: %w", err)
			}
			if !opts.nonInteractive {
				if err := prompts.RunInitForm(&opts.InitAnswers, catalog.Names()); err != nil {
					return err
				}
			}
			return runInit(cwd, catalog, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Specification title")
	cmd.Flags().StringVarP(&opts.Version, "version", "v", "1.0.0", "Initial specification version")
	cmd.Flags().StringVarP(&opts.SpecPath, "spec", "s", "", "Path of the specification document (default spec/main.xddl.<format>)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Specification format (yaml, json or toml)")
	cmd.Flags().StringVar(&opts.Structure, "structure", "", "Name of a first structure to declare")
	cmd.Flags().StringSliceVarP(&opts.Plugins, "plugin", "p", nil, "Plugin(s) to enable, comma-separated")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires --title)")

	return cmd
}

func runInit(dir string, catalog *plugin.Catalog, opts *initOptions) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New("xddl.yaml already exists; project already initialized")
	}
	if opts.Title == "" {
		return errors.New("a title is required (use --title)")
	}
	for _, name := range opts.Plugins {
		if !catalog.Has(name) {
			return fmt.Errorf("%w: %q", plugin.ErrUnknownPlugin, name)
		}
	}

	format, specPath, err := specTarget(opts.Format, opts.SpecPath)
	if err != nil {
		return err
	}
	formatter, err := document.FormatterFor(format)
	if err != nil {
		return err
	}

	spec, err := starterSpec(opts.Title, opts.Version, opts.Structure)
	if err != nil {
		return err
	}

	absSpec := specPath
	if !filepath.IsAbs(absSpec) {
		absSpec = filepath.Join(dir, specPath)
	}
	if _, err := os.Stat(absSpec); err == nil {
		return fmt.Errorf("spec file already exists: %s", specPath)
	}
	if err := os.MkdirAll(filepath.Dir(absSpec), 0o750); err != nil {
		return fmt.Errorf("failed to create spec directory: %w", err)
	}
	data, err := formatter.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to encode spec: %w", err)
	}
	if err := os.WriteFile(absSpec, data, 0o600); err != nil {
		return fmt.Errorf("failed to write spec file: %w", err)
	}

	cfg := config.New(filepath.ToSlash(specPath))
	cfg.Format = format
	for _, name := range opts.Plugins {
		cfg.Plugins = append(cfg.Plugins, config.PluginConfig{Name: name})
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	plugins := strings.Join(opts.Plugins, ", ")
	if plugins == "" {
		plugins = "-"
	}
	prompts.PrintResult([]prompts.ResultField{
		{Label: "Config", Value: config.FileName},
		{Label: "Specification", Value: specPath},
		{Label: "Plugins", Value: plugins},
	}, "Initialization completed")
	return nil
}

// specTarget settles the document format and path from whichever of the
// two was given.
func specTarget(format, specPath string) (string, string, error) {
	if specPath == "" {
		if format == "" {
			format = config.DefaultFormat
		}
		return format, filepath.Join("spec", "main.xddl."+format), nil
	}
	if !document.IsDocument(specPath) {
		return "", "", fmt.Errorf("spec path must end in .yaml, .yml, .json or .toml: %s", specPath)
	}
	ext := strings.TrimPrefix(filepath.Ext(specPath), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	if format != "" && format != ext {
		return "", "", fmt.Errorf("spec path %s does not match format %s", specPath, format)
	}
	return ext, specPath, nil
}

// starterSpec returns a document holding structure, when named, with a
// single required id field.
func starterSpec(title, version, structure string) (*model.Specification, error) {
	spec, err := model.New(model.Meta{Title: title, Version: version})
	if err != nil {
		return nil, err
	}
	if structure == "" {
		return spec, nil
	}
	err = spec.AddStructure(&model.Structure{
		Name: structure,
		Fields: []*model.Field{
			{Name: "id", Type: model.Primitive{Core: model.String}, Description: "Unique identifier"},
		},
	})
	if err != nil {
		return nil, err
	}
	return spec, nil
}
