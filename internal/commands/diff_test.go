// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/session"
)

func TestRunDiff(t *testing.T) {
	left := loadProject(t, testConfig)

	t.Run("identical", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runDiff(&out, left.Spec, loadProject(t, testConfig).Spec))
		assert.Equal(t, "No differences\n", out.String())
	})

	t.Run("changed", func(t *testing.T) {
		dir := writeProject(t, testConfig)
		writeFile(t, filepath.Join(dir, "spec", "people.xddl.yaml"),
			strings.Replace(testSpec, "{name: height, type: Length}", "{name: height, type: Integer}", 1))
		right, err := session.LoadDir(context.Background(), dir)
		require.NoError(t, err)

		var out bytes.Buffer
		err = runDiff(&out, left.Spec, right.Spec)
		require.ErrorIs(t, err, ErrSpecsDiffer)
		assert.Contains(t, err.Error(), "1 change(s)")

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, []string{"CHANGE", "PATH", "LEFT", "RIGHT"}, strings.Fields(lines[0]))
		assert.Equal(t, []string{"changed", "Person.height", "enumeration", "[CM,", "M]", "Integer"}, strings.Fields(lines[1]))
	})
}

func TestRootCmd_DiffWithPatches(t *testing.T) {
	left := writeProject(t, testConfig)
	right := writeProject(t, testConfig)
	writeFile(t, filepath.Join(right, "spec", "people.xddl.yaml"), "patches: [overlays]\n"+testSpec)
	writeFile(t, filepath.Join(right, "spec", "overlays", "person.patch.yaml"), `
name: Person
fields:
  - {name: height, delete: true}
  - {name: nickname, type: String}
`)

	cmd := NewRootCmd(testCatalog(t), func(string) string { return "" })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"diff",
		filepath.Join(left, "spec", "people.xddl.yaml"),
		filepath.Join(right, "spec", "people.xddl.yaml"),
	})

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrSpecsDiffer)
	assert.Regexp(t, `removed\s+Person\.height\s`, out.String())
	assert.Regexp(t, `added\s+Person\.nickname\s+-\s+String`, out.String())
}

func TestRootCmd_DiffArgs(t *testing.T) {
	cmd := NewRootCmd(testCatalog(t), func(string) string { return "" })
	cmd.SetArgs([]string{"diff", "only-one.xddl.yaml"})
	require.Error(t, cmd.Execute())
}
