// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package session

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoaded indicates a command that needs a project ran before one was
// loaded into its context.
var ErrNotLoaded = errors.New("project context not loaded")

// FromCommand returns the project stored in cmd's context, or nil.
func FromCommand(cmd *cobra.Command) *Context {
	return From(cmd.Context())
}

// RequireFromCommand is FromCommand failing with ErrNotLoaded.
func RequireFromCommand(cmd *cobra.Command) (*Context, error) {
	if sc := FromCommand(cmd); sc != nil {
		return sc, nil
	}
	return nil, errors.WithHint(ErrNotLoaded, "run inside a directory holding xddl.yaml, or pass --spec")
}

// PreRunLoad is a cobra PreRunE hook loading the project of the working
// directory into the command's context. A project already present in the
// context is kept as is.
func PreRunLoad(cmd *cobra.Command, _ []string) error {
	if FromCommand(cmd) != nil {
		return nil
	}
	ctx, err := Load(cmd.Context())
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}
