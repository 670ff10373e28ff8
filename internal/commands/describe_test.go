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

func TestRunDescribeDefinition(t *testing.T) {
	sc := loadProject(t, testConfig)

	tests := []struct {
		name       string
		definition string
		format     string
		wantHeader string
		want       []string
	}{
		{
			name:       "structure in project format",
			definition: "Person",
			wantHeader: "# structure Person from spec/people.xddl.yaml",
			want:       []string{"name: Person", "type: Length"},
		},
		{
			name:       "imported by plain name",
			definition: "Length",
			format:     "json",
			wantHeader: "# enumeration Length from spec/units.xddl.yaml",
			want:       []string{`"name": "Length"`, `"CM"`},
		},
		{
			name:       "imported by qualified name",
			definition: "UnitsLength",
			wantHeader: "# enumeration Length from spec/units.xddl.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, runDescribeDefinition(&buf, sc, tt.definition, tt.format))

			header, body, _ := strings.Cut(buf.String(), "\n")
			assert.Equal(t, tt.wantHeader, header)
			for _, w := range tt.want {
				assert.Contains(t, body, w)
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		err := runDescribeDefinition(&bytes.Buffer{}, sc, "Nobody", "")
		require.ErrorIs(t, err, ErrDefinitionNotFound)
	})

	t.Run("unknown format", func(t *testing.T) {
		err := runDescribeDefinition(&bytes.Buffer{}, sc, "Person", "xml")
		require.Error(t, err)
	})
}

func TestDefinitionNames(t *testing.T) {
	sc := loadProject(t, testConfig)
	assert.Equal(t, []string{"Person", "Color", "UnitsLength"}, definitionNames(sc.Spec))
}

func TestRunDescribe(t *testing.T) {
	require.NoError(t, runDescribe(loadProject(t, testConfig)))
}
