// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

func TestRunGenerate(t *testing.T) {
	sc := loadProject(t, testConfig+`plugins:
  - name: markdown
    options: {dir: docs, index: true}
`)
	out := t.TempDir()

	err := runGenerate(context.Background(), sc, testCatalog(t), &generateOptions{
		plugins:  []string{"markdown", "unify"},
		output:   out,
		parallel: 2,
	})
	require.NoError(t, err)

	for _, name := range []string{"docs/Person.md", "docs/Color.md", "docs/index.md"} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(name)))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(filepath.Join(out, "docs", "UnitsLength.md"))
	assert.True(t, os.IsNotExist(err), "imported definitions get no page")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "docs directory and the unified document")
}

func TestRunGenerate_DefaultOutput(t *testing.T) {
	sc := loadProject(t, testConfig+"plugins: [{name: markdown}]\n")

	require.NoError(t, runGenerate(context.Background(), sc, testCatalog(t), &generateOptions{parallel: 1}))

	_, err := os.Stat(filepath.Join(sc.Dir, "gen", "Person.md"))
	assert.NoError(t, err)
}

func TestSelectPlugins(t *testing.T) {
	configured := loadProject(t, testConfig+"plugins: [{name: unify}]\n")
	bare := loadProject(t, testConfig)

	t.Run("flags win", func(t *testing.T) {
		names, err := selectPlugins(configured, testCatalog(t), &generateOptions{plugins: []string{"markdown"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"markdown"}, names)
	})

	t.Run("configured", func(t *testing.T) {
		names, err := selectPlugins(configured, testCatalog(t), &generateOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"unify"}, names)
	})

	t.Run("none without prompts", func(t *testing.T) {
		_, err := selectPlugins(bare, testCatalog(t), &generateOptions{nonInteractive: true})
		require.ErrorIs(t, err, ErrNoPlugins)
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := selectPlugins(bare, testCatalog(t), &generateOptions{plugins: []string{"cobol"}})
		require.ErrorIs(t, err, plugin.ErrUnknownPlugin)
		assert.Contains(t, err.Error(), "markdown, unify")
	})
}

func TestNewDispatcher_InvalidOptions(t *testing.T) {
	sc := loadProject(t, testConfig+`plugins:
  - name: markdown
    options: {columns: 3}
`)
	_, err := newDispatcher(context.Background(), sc, testCatalog(t), []string{"markdown"}, 1)
	require.ErrorIs(t, err, plugin.ErrInvalidOptions)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "a, b", summarize([]string{"a", "b"}, 2))
	assert.Equal(t, "a, b and 3 more", summarize([]string{"a", "b", "c", "d", "e"}, 2))
	assert.Equal(t, "", summarize(nil, 2))
}
