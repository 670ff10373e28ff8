// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

const defaultDebounce = 200 * time.Millisecond

type watchOptions struct {
	generateOptions
	debounce time.Duration
}

func newWatchCmd(catalog *plugin.Catalog) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever a specification document changes",
		Long: `Run the configured plugins once, then again each time a document of the
specification is written. Invalid intermediate states are reported and the
watch goes on. Stop with Ctrl+C.`,
		Example: `  # Watch the project specification
  xddl watch

  # Watch with selected plugins
  xddl watch --plugin markdown --debounce 500ms`,
		Args:    cobra.NoArgs,
		PreRunE: preRunProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("parallel") {
				opts.parallel = sc.Config.Parallel
			}
			opts.nonInteractive = true
			return runWatch(cmd.Context(), sc, catalog, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.plugins, "plugin", "p", nil, "Plugin(s) to run, comma-separated")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output directory (defaults to the configured output)")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Maximum number of plugins running at once (0 uses every CPU)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", defaultDebounce, "Quiet period before regenerating")

	return cmd
}

func runWatch(ctx context.Context, sc *session.Context, catalog *plugin.Catalog, opts *watchOptions) error {
	log := logging.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	watchDocuments(log, watcher, session.DocumentPaths(sc.SpecPath(), sc.Spec))
	if err := runGenerate(ctx, sc, catalog, &opts.generateOptions); err != nil {
		log.Warn("generation failed", zap.Error(err))
	}
	fmt.Println(prompts.Muted("\nWatching for changes..."))

	rebuild := func() error {
		spec, pc, err := session.LoadSpec(ctx, sc.SpecPath(), sc.Config.Format)
		if err != nil {
			ps := problems(err)
			prompts.PrintProblems(fmt.Sprintf("%d problem(s) found", len(ps)), ps)
			return err
		}
		next := *sc
		next.Spec, next.Plugins = spec, pc
		watchDocuments(log, watcher, session.DocumentPaths(next.SpecPath(), spec))
		return runGenerate(ctx, &next, catalog, &opts.generateOptions)
	}

	return watchLoop(ctx, watcher, opts.debounce, rebuild)
}

// watchDocuments watches the directories holding paths. Editors often
// replace files on save, so directories are watched rather than files.
func watchDocuments(log *zap.Logger, watcher *fsnotify.Watcher, paths []string) {
	seen := make(map[string]struct{})
	for _, p := range paths {
		dir := filepath.Dir(p)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			log.Warn("cannot watch directory", zap.String(logging.FieldPath, dir), zap.Error(err))
			continue
		}
		log.Debug("watching", zap.String(logging.FieldPath, dir))
	}
}

// watchLoop calls rebuild once events on documents have been quiet for
// debounce. It returns when ctx is done or the watcher closes. Rebuild
// failures are logged and do not end the loop.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, rebuild func() error) error {
	log := logging.FromContext(ctx)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !document.IsDocument(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) {
				continue
			}
			log.Debug("document changed", zap.String(logging.FieldPath, ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := rebuild(); err != nil {
				log.Warn("regeneration failed", zap.Error(err))
			}
		}
	}
}
