// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	env := map[string]string{"XDDL_LOG_LEVEL": "debug"}
	cmd := NewRootCmd(testCatalog(t), func(k string) string { return env[k] })

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"init", "validate", "generate", "watch", "describe", "diff", "plugins", "version"} {
		assert.Contains(t, names, want)
	}

	level, err := cmd.PersistentFlags().GetString(flagLogLevel)
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
}

func TestRootCmd_Version(t *testing.T) {
	cmd := NewRootCmd(testCatalog(t), func(string) string { return "" })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "xddl version")
}

func TestRootCmd_BadLogFormat(t *testing.T) {
	cmd := NewRootCmd(testCatalog(t), func(string) string { return "" })
	cmd.SetArgs([]string{"version", "--log-format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRootCmd_ValidateStandalone(t *testing.T) {
	dir := writeProject(t, testConfig)
	cmd := NewRootCmd(testCatalog(t), func(string) string { return "" })
	cmd.SetArgs([]string{"validate", "--spec", dir + "/spec/people.xddl.yaml"})

	require.NoError(t, cmd.Execute())
}
