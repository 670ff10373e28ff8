// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package plugin runs generator plugins over a resolved specification.
//
// A Plugin receives a read-only Context and an output.Location and returns
// the artifacts it wrote. The Dispatcher invokes every registered plugin
// once, in registration order, and reports each outcome separately: one
// failing plugin never prevents the others from running.
package plugin

import (
	"github.com/atl-tw/xddl-sub001/internal/output"
)

// Plugin is a generator turning a resolved specification into artifacts.
type Plugin interface {
	// Name returns the plugin identifier, e.g. "markdown".
	Name() string

	// Generate writes the plugin's artifacts to out. It returns the
	// artifacts written, also on failure, and treats c as read-only.
	Generate(c *Context, out output.Location) ([]output.Artifact, error)
}

// Func adapts a function to the Plugin interface.
type Func struct {
	ID string
	Fn func(c *Context, out output.Location) ([]output.Artifact, error)
}

// Name implements Plugin.
func (f Func) Name() string { return f.ID }

// Generate implements Plugin.
func (f Func) Generate(c *Context, out output.Location) ([]output.Artifact, error) {
	return f.Fn(c, out)
}
