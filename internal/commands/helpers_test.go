// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/generate/markdown"
	"github.com/atl-tw/xddl-sub001/internal/generate/unify"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

const (
	testConfig = `version: 1
spec: spec/people.xddl.yaml
output: gen
`

	testSpec = `title: People
version: 1.0.0
imports: [units.xddl.yaml]
structures:
  - name: Person
    fields:
      - {name: name, type: String, required: true}
      - {name: height, type: Length}
enumerations:
  - name: Color
    values: [RED, GREEN]
`

	testUnits = `title: Units
enumerations:
  - name: Length
    values: [CM, M]
`
)

func testCatalog(t *testing.T) *plugin.Catalog {
	t.Helper()
	c := plugin.NewCatalog()
	require.NoError(t, c.Add(markdown.Name, "Markdown pages", markdown.Factory))
	require.NoError(t, c.Add(unify.Name, "Merged document", unify.Factory))
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// writeProject lays out a project with a spec importing a sibling document.
func writeProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "xddl.yaml"), config)
	writeFile(t, filepath.Join(dir, "spec", "people.xddl.yaml"), testSpec)
	writeFile(t, filepath.Join(dir, "spec", "units.xddl.yaml"), testUnits)
	return dir
}

func loadProject(t *testing.T, config string) *session.Context {
	t.Helper()
	sc, err := session.LoadDir(context.Background(), writeProject(t, config))
	require.NoError(t, err)
	return sc
}
