// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlugins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runPlugins(&buf, testCatalog(t), []string{"unify"}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME", strings.Fields(lines[0])[0])
	assert.True(t, strings.HasPrefix(lines[1], "  markdown"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "* unify"), lines[2])
	assert.Contains(t, lines[2], "Merged document")
}
