// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

// ErrNoPlugins indicates a generation run with nothing to run.
var ErrNoPlugins = errors.New("no plugins selected")

type generateOptions struct {
	spec           string
	plugins        []string
	output         string
	parallel       int
	nonInteractive bool
}

func newGenerateCmd(catalog *plugin.Catalog) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run generator plugins over the specification",
		Long: fmt.Sprintf(`Resolve the specification and run generator plugins over it. Every plugin
receives the same read-only view; one failing plugin does not stop the others.

Plugins default to those listed in xddl.yaml. Available plugins: %s`, strings.Join(catalog.Names(), ", ")),
		Example: `  # Run the plugins configured in xddl.yaml
  xddl generate

  # Run selected plugins into a custom directory
  xddl generate --plugin markdown,jsonschema --output docs

  # Generate from a standalone document
  xddl generate --spec people.xddl.yaml --plugin graphviz --non-interactive`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := loadTarget(cmd, opts.spec)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("parallel") {
				opts.parallel = sc.Config.Parallel
			}
			return runGenerate(cmd.Context(), sc, catalog, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.spec, "spec", "s", "", "Path to a specification document (defaults to the project spec)")
	cmd.Flags().StringSliceVarP(&opts.plugins, "plugin", "p", nil, "Plugin(s) to run, comma-separated")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (defaults to the configured output)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Maximum number of plugins running at once (0 uses every CPU)")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Fail instead of prompting when no plugin is selected")

	return cmd
}

func runGenerate(ctx context.Context, sc *session.Context, catalog *plugin.Catalog, opts *generateOptions) error {
	names, err := selectPlugins(sc, catalog, opts)
	if err != nil {
		return err
	}
	d, err := newDispatcher(ctx, sc, catalog, names, opts.parallel)
	if err != nil {
		return err
	}

	dir := opts.output
	if dir == "" {
		dir = sc.OutputDir()
	}
	out, err := output.NewDir(dir)
	if err != nil {
		return err
	}

	report := d.Run(sc.Plugins, out)
	printReport(report, dir)
	return report.Err()
}

// selectPlugins returns the plugins to run: those named by flag, else those
// configured, else those picked interactively.
func selectPlugins(sc *session.Context, catalog *plugin.Catalog, opts *generateOptions) ([]string, error) {
	names := opts.plugins
	if len(names) == 0 {
		names = sc.Config.PluginNames()
	}
	if len(names) == 0 {
		if opts.nonInteractive {
			return nil, errors.WithHint(ErrNoPlugins, "use --plugin or list plugins in xddl.yaml")
		}
		if err := prompts.RunPluginSelect(&names, catalog.Names(), catalog.Describe); err != nil {
			return nil, err
		}
	}
	if len(names) == 0 {
		return nil, ErrNoPlugins
	}

	for _, name := range names {
		if !catalog.Has(name) {
			return nil, errors.Wrapf(plugin.ErrUnknownPlugin, "%q (available: %s)", name, strings.Join(catalog.Names(), ", "))
		}
	}
	return names, nil
}

// newDispatcher builds each named plugin with its configured options.
func newDispatcher(ctx context.Context, sc *session.Context, catalog *plugin.Catalog, names []string, parallel int) (*plugin.Dispatcher, error) {
	d := plugin.NewDispatcher(
		plugin.WithLogger(logging.FromContext(ctx)),
		plugin.WithParallelism(parallel),
	)
	for _, name := range names {
		pc, _ := sc.Config.Plugin(name)
		node, err := pc.OptionsNode()
		if err != nil {
			return nil, errors.Wrapf(plugin.ErrInvalidOptions, "plugin %s: %v", name, err)
		}
		p, err := catalog.New(name, node)
		if err != nil {
			return nil, err
		}
		if err := d.Register(p); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func printReport(report *plugin.RunReport, dir string) {
	var fields []prompts.ResultField
	var failures []string
	for _, o := range report.Outcomes {
		if !o.Succeeded() {
			failures = append(failures, fmt.Sprintf("%s: %v", o.Plugin, o.Err))
			continue
		}
		names := make([]string, len(o.Artifacts))
		for i, a := range o.Artifacts {
			names[i] = a.Name
		}
		fields = append(fields, prompts.ResultField{
			Label: o.Plugin,
			Value: fmt.Sprintf("%d artifact(s) in %s %s",
				len(o.Artifacts),
				o.Duration.Round(time.Millisecond),
				prompts.Muted(summarize(names, 4))),
		})
	}

	msg := ""
	if len(failures) == 0 {
		msg = fmt.Sprintf("Generated %d artifact(s) in %s", len(report.Artifacts()), filepath.Clean(dir))
	}
	if len(fields) > 0 {
		prompts.PrintResult(fields, msg)
	}
	if len(failures) > 0 {
		prompts.PrintProblems(fmt.Sprintf("%d plugin(s) failed", len(failures)), failures)
	}
}

// summarize joins at most limit names, counting the rest.
func summarize(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:limit], ", "), len(names)-limit)
}
