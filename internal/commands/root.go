// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/session"
	"github.com/atl-tw/xddl-sub001/internal/version"
)

const (
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

type rootOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCmd creates and returns the root command for the CLI. The catalog
// lists every generator plugin the CLI can run; getenv supplies the
// XDDL_LOG_LEVEL and XDDL_LOG_FORMAT flag defaults.
func NewRootCmd(catalog *plugin.Catalog, getenv func(string) string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "xddl",
		Short: "Generate documentation and schemas from xDDL specifications",
		Long: `xddl reads data definitions written in the xDDL language, resolves every
reference between them and runs generator plugins over the result.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, flagLogLevel, getenv("XDDL_LOG_LEVEL"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, flagLogFormat, getenv("XDDL_LOG_FORMAT"), "Log format (console or json)")

	rootCmd.AddCommand(
		newInitCmd(catalog),
		newValidateCmd(),
		newGenerateCmd(catalog),
		newWatchCmd(catalog),
		newDescribeCmd(),
		newDiffCmd(),
		newPluginsCmd(catalog),
		newVersionCmd(),
	)

	return rootCmd
}

func setupLogger(cmd *cobra.Command, opts *rootOptions) error {
	l, err := logging.New(opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}
	cmd.SetContext(logging.WithLogger(cmd.Context(), l))
	return nil
}

// preRunProject loads the project like session.PreRunLoad and then applies
// the configured log settings unless flags override them.
func preRunProject(cmd *cobra.Command, args []string) error {
	if err := session.PreRunLoad(cmd, args); err != nil {
		return err
	}
	return useProjectLogger(cmd, session.FromCommand(cmd))
}

func useProjectLogger(cmd *cobra.Command, sc *session.Context) error {
	flags := cmd.Flags()
	if flags.Changed(flagLogLevel) && flags.Changed(flagLogFormat) {
		return nil
	}

	level, _ := flags.GetString(flagLogLevel)
	format, _ := flags.GetString(flagLogFormat)
	if !flags.Changed(flagLogLevel) && level == "" {
		level = sc.Config.Log.Level
	}
	if !flags.Changed(flagLogFormat) && format == "" {
		format = sc.Config.Log.Format
	}

	l, err := logging.New(level, format)
	if err != nil {
		return err
	}
	l.Debug("project loaded",
		zap.String(logging.FieldPath, sc.SpecPath()),
		zap.Int(logging.FieldCount, len(sc.Spec.Documents())))
	cmd.SetContext(logging.WithLogger(cmd.Context(), l))
	return nil
}
