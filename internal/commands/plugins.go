// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/config"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

func newPluginsCmd(catalog *plugin.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List available generator plugins",
		Long: `List every generator plugin this build of xddl can run. Inside a project,
plugins enabled in xddl.yaml are marked with an asterisk.`,
		Example: `  # List plugins
  xddl plugins`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugins(cmd.OutOrStdout(), catalog, enabledPlugins())
		},
	}
}

// enabledPlugins returns the plugins configured in the working directory's
// project, or none outside a project.
func enabledPlugins() []string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	cfg, err := config.Load(filepath.Join(cwd, config.FileName))
	if err != nil {
		return nil
	}
	return cfg.PluginNames()
}

func runPlugins(w io.Writer, catalog *plugin.Catalog, enabled []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  NAME\tDESCRIPTION")
	for _, name := range catalog.Names() {
		mark := " "
		if slices.Contains(enabled, name) {
			mark = "*"
		}
		if _, err := fmt.Fprintf(tw, "%s %s\t%s\n", mark, name, catalog.Describe(name)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
