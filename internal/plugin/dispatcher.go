// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package plugin

import (
	"runtime"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/output"
)

// ErrPluginPanic marks the outcome of a plugin that panicked.
var ErrPluginPanic = errors.New("plugin panicked")

// Dispatcher holds the registered plugins and runs them.
type Dispatcher struct {
	mu       sync.Mutex
	plugins  []Plugin
	names    map[string]struct{}
	log      *zap.Logger
	parallel int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used to report plugin runs.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithParallelism sets how many plugins may run at once. The default of 1
// runs them one after another in registration order; n <= 0 uses one
// worker per CPU.
func WithParallelism(n int) Option {
	return func(d *Dispatcher) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		d.parallel = n
	}
}

// NewDispatcher creates a Dispatcher with no plugins.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		names:    make(map[string]struct{}),
		log:      zap.NewNop(),
		parallel: 1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register appends p to the run list. Names must be unique.
func (d *Dispatcher) Register(p Plugin) error {
	if p == nil {
		return errors.New("nil plugin")
	}
	name := p.Name()
	if name == "" {
		return errors.New("plugin without a name")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.names[name]; exists {
		return errors.Newf("plugin already registered: %s", name)
	}
	d.names[name] = struct{}{}
	d.plugins = append(d.plugins, p)
	return nil
}

// Plugins returns the registered plugin names in registration order.
func (d *Dispatcher) Plugins() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, len(d.plugins))
	for i, p := range d.plugins {
		names[i] = p.Name()
	}
	return names
}

// Run invokes every registered plugin once with c and out. Outcomes are
// reported in registration order regardless of completion order.
func (d *Dispatcher) Run(c *Context, out output.Location) *RunReport {
	d.mu.Lock()
	plugins := append([]Plugin(nil), d.plugins...)
	d.mu.Unlock()

	report := &RunReport{
		RunID:    uuid.NewString(),
		Outcomes: make([]Outcome, len(plugins)),
	}
	log := d.log.With(zap.String(logging.FieldRunID, report.RunID))
	log.Info("run started", zap.Int(logging.FieldCount, len(plugins)), zap.Int("parallel", d.parallel))
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(d.parallel)
	for i, p := range plugins {
		g.Go(func() error {
			report.Outcomes[i] = d.invoke(log, p, c, out)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(start)
	log.Info("run finished",
		zap.Bool("ok", report.Succeeded()),
		zap.Int("failed", len(report.Failed())),
		zap.Int64(logging.FieldDurationMS, report.Duration.Milliseconds()))
	return report
}

// invoke runs one plugin, turning a panic into a failed outcome.
func (d *Dispatcher) invoke(log *zap.Logger, p Plugin, c *Context, out output.Location) (o Outcome) {
	o.Plugin = p.Name()
	log = log.With(zap.String(logging.FieldPlugin, o.Plugin))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.Err = errors.Wrapf(ErrPluginPanic, "%v", r)
		}
		o.Duration = time.Since(start)
		if o.Err != nil {
			log.Error("plugin failed",
				zap.Error(o.Err),
				zap.Int(logging.FieldCount, len(o.Artifacts)),
				zap.Int64(logging.FieldDurationMS, o.Duration.Milliseconds()))
			return
		}
		for _, a := range o.Artifacts {
			log.Debug("artifact written", zap.String(logging.FieldArtifact, a.Name), zap.Int64("size", a.Size))
		}
		log.Info("plugin finished",
			zap.Int(logging.FieldCount, len(o.Artifacts)),
			zap.Int64(logging.FieldDurationMS, o.Duration.Milliseconds()))
	}()

	if c == nil {
		o.Err = errors.Wrap(ErrUnresolvedModel, "no context")
		return o
	}
	o.Artifacts, o.Err = p.Generate(c, out)
	return o
}
