// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package plugin

import (
	"fmt"
	"strings"
	"time"

	"github.com/atl-tw/xddl-sub001/internal/output"
)

// Outcome is the result of one plugin invocation.
type Outcome struct {
	Plugin    string
	Artifacts []output.Artifact // written artifacts, also kept when Err is set
	Err       error
	Duration  time.Duration
}

// Succeeded reports whether the plugin returned without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// RunReport aggregates the outcomes of one dispatcher run, one per plugin
// in registration order.
type RunReport struct {
	RunID    string
	Outcomes []Outcome
	Duration time.Duration
}

// Succeeded reports whether every plugin succeeded.
func (r *RunReport) Succeeded() bool {
	return len(r.Failed()) == 0
}

// Failed returns the failed outcomes in registration order.
func (r *RunReport) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

// Artifacts returns every artifact written during the run.
func (r *RunReport) Artifacts() []output.Artifact {
	var out []output.Artifact
	for _, o := range r.Outcomes {
		out = append(out, o.Artifacts...)
	}
	return out
}

// Outcome returns the outcome of the named plugin.
func (r *RunReport) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Plugin == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Err returns nil for a successful run, or a *RunError listing every
// failed plugin.
func (r *RunReport) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}
	e := &RunError{}
	for _, o := range failed {
		e.Failures = append(e.Failures, &PluginError{Plugin: o.Plugin, Err: o.Err})
	}
	return e
}

// PluginError is the failure of a single plugin.
type PluginError struct {
	Plugin string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// RunError aggregates plugin failures.
type RunError struct {
	Failures []*PluginError
}

func (e *RunError) Error() string {
	if len(e.Failures) == 1 {
		return e.Failures[0].Error()
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d plugins failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes each plugin failure to errors.Is and errors.As.
func (e *RunError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f
	}
	return out
}
