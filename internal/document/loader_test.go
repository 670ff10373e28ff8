// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func TestLoader_ImportsAndIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"spec/main.xddl.yaml": file(`
title: Main
imports: [common/common.xddl.json, units.toml]
includes: [types]
structures:
  - name: Person
    fields:
      - {name: address, type: Address}
`),
		"spec/common/common.xddl.json": file(`{
  "title": "Common",
  "imports": ["../units.toml"],
  "structures": [{"name": "Address", "fields": [{"name": "city", "type": "String"}]}]
}`),
		"spec/units.toml": file(`
title = "Units"

[[enumerations]]
name = "Unit"
values = ["KG", "LB"]
`),
		"spec/types/b.xddl.yaml": file(`
kind: enumeration
name: Status
values: [ACTIVE, INACTIVE]
`),
		"spec/types/a.xddl.yaml": file(`
kind: structure
name: Audit
fields:
  - {name: at, type: DateTime}
`),
		"spec/types/nested/c.xddl.json": file(`{"kind": "structure", "name": "Tag", "fields": []}`),
		"spec/types/README.md":          file("ignored"),
	}

	spec, err := NewLoader(fsys, WithLogger(zaptest.NewLogger(t))).Load("spec/main.xddl.yaml")
	require.NoError(t, err)

	assert.Equal(t, "spec/main.xddl.yaml", spec.Source)
	names := make([]string, 0)
	for name := range spec.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"Person", "Audit", "Status", "Tag"}, names, "includes follow the document's own definitions in path order")

	imports := spec.Imports()
	require.Len(t, imports, 2)
	assert.Equal(t, "spec/common/common.xddl.json", imports[0].Source)
	assert.Equal(t, "spec/units.toml", imports[1].Source)
	require.Len(t, imports[0].Imports(), 1)
	assert.Same(t, imports[1], imports[0].Imports()[0], "a document imported twice is loaded once")

	docs := spec.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, "spec/units.toml", docs[2].Source)
}

func TestLoader_ImportCycle(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": file("imports: [b.yaml]\n"),
		"b.yaml": file("imports: [a.yaml]\n"),
	}

	_, err := NewLoader(fsys).Load("a.yaml")
	require.ErrorIs(t, err, model.ErrMalformedSpecification)
	assert.Contains(t, err.Error(), "a.yaml -> b.yaml -> a.yaml")
}

func TestLoader_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"missing-import.yaml": file("imports: [nowhere.yaml]\n"),
		"bad-kind.yaml":       file("includes: [defs]\n"),
		"defs/x.xddl.yaml":    file("kind: table\nname: X\n"),
		"dupe.yaml": file(`
includes: [more]
structures: [{name: X, fields: []}]
`),
		"more/x.xddl.yaml": file("kind: structure\nname: X\n"),
		"notes.txt":        file("hello"),
	}

	tests := []struct {
		name      string
		file      string
		malformed bool
	}{
		{"missing import", "missing-import.yaml", false},
		{"unknown kind", "bad-kind.yaml", true},
		{"duplicate from include", "dupe.yaml", true},
		{"unsupported format", "notes.txt", false},
		{"missing file", "absent.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(fsys).Load(tt.file)
			require.Error(t, err)
			if tt.malformed {
				assert.ErrorIs(t, err, model.ErrMalformedSpecification)
			}
		})
	}

	_, err := NewLoader(nil).Load("a.yaml")
	require.Error(t, err)
}
