// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/atl-tw/xddl-sub001/internal/resolve"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

// loadTarget stores the context of the document named by specPath in the
// command's context, or of the project in the working directory when
// specPath is empty.
func loadTarget(cmd *cobra.Command, specPath string) (*session.Context, error) {
	if specPath == "" {
		if err := preRunProject(cmd, nil); err != nil {
			return nil, err
		}
		return session.RequireFromCommand(cmd)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	sc, err := session.LoadFile(cmd.Context(), cwd, specPath)
	if err != nil {
		return nil, err
	}
	cmd.SetContext(session.WithContext(cmd.Context(), sc))
	return sc, nil
}

// problems lists every problem carried by err, one line each, with hints
// appended.
func problems(err error) []string {
	var rerr *resolve.Error
	if !errors.As(err, &rerr) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(rerr.Problems))
	for _, p := range rerr.Problems {
		line := p.Error()
		if hints := errors.GetAllHints(p); len(hints) > 0 {
			line += " (" + strings.Join(hints, "; ") + ")"
		}
		out = append(out, line)
	}
	return out
}
