// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/prompts"
	"github.com/atl-tw/xddl-sub001/internal/session"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	opts := &initOptions{
		InitAnswers: prompts.InitAnswers{
			Title:     "People",
			Version:   "0.1.0",
			Structure: "Person",
			Plugins:   []string{"markdown"},
		},
		nonInteractive: true,
	}
	require.NoError(t, runInit(dir, testCatalog(t), opts))

	_, err := os.Stat(filepath.Join(dir, "spec", "main.xddl.yaml"))
	require.NoError(t, err)

	sc, err := session.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "People", sc.Spec.Title)
	assert.Equal(t, "0.1.0", sc.Spec.Version)
	assert.Equal(t, []string{"markdown"}, sc.Config.PluginNames())

	st, ok := sc.Spec.Structure("Person")
	require.True(t, ok)
	require.Len(t, st.Fields, 1)
	assert.Equal(t, "id", st.Fields[0].Name)
	assert.False(t, st.Fields[0].Optional)

	t.Run("already initialized", func(t *testing.T) {
		err := runInit(dir, testCatalog(t), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already initialized")
	})
}

func TestRunInit_JSON(t *testing.T) {
	dir := t.TempDir()
	opts := &initOptions{InitAnswers: prompts.InitAnswers{Title: "Orders", Version: "1.0.0", SpecPath: "defs/orders.xddl.json"}}
	require.NoError(t, runInit(dir, testCatalog(t), opts))

	data, err := os.ReadFile(filepath.Join(dir, "defs", "orders.xddl.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Orders"`)

	sc, err := session.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "json", sc.Config.Format)
	assert.Empty(t, sc.Spec.Definitions())
}

func TestRunInit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		answers prompts.InitAnswers
		wantErr error
		wantMsg string
	}{
		{name: "missing title", answers: prompts.InitAnswers{}, wantMsg: "title is required"},
		{name: "unknown plugin", answers: prompts.InitAnswers{Title: "x", Plugins: []string{"cobol"}}, wantErr: plugin.ErrUnknownPlugin},
		{name: "bad extension", answers: prompts.InitAnswers{Title: "x", SpecPath: "spec.txt"}, wantMsg: "must end in"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			err := runInit(dir, testCatalog(t), &initOptions{InitAnswers: tt.answers})
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
			_, statErr := os.Stat(filepath.Join(dir, "xddl.yaml"))
			assert.True(t, os.IsNotExist(statErr), "no config written on failure")
		})
	}
}

func TestSpecTarget(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		path       string
		wantFormat string
		wantPath   string
		wantErr    bool
	}{
		{name: "defaults", wantFormat: "yaml", wantPath: filepath.Join("spec", "main.xddl.yaml")},
		{name: "format only", format: "toml", wantFormat: "toml", wantPath: filepath.Join("spec", "main.xddl.toml")},
		{name: "path only", path: "a/b.xddl.json", wantFormat: "json", wantPath: "a/b.xddl.json"},
		{name: "yml extension", path: "a.yml", wantFormat: "yaml", wantPath: "a.yml"},
		{name: "matching", format: "yaml", path: "a.yaml", wantFormat: "yaml", wantPath: "a.yaml"},
		{name: "mismatch", format: "json", path: "a.yaml", wantErr: true},
		{name: "unknown extension", path: "a.xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, path, err := specTarget(tt.format, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
