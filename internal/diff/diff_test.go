// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/resolve"
)

const v1 = `
title: People
version: 1.0.0
structures:
  - name: Person
    extends: Base
    fields:
      - {name: name, type: String, required: true}
      - {name: address, type: Address}
      - {name: tags, type: {list: String}}
      - {name: color, type: Color}
      - name: contact
        type: {structure: {fields: [{name: email, type: String}]}}
  - name: Base
    fields:
      - {name: id, type: Long}
  - name: Address
    fields:
      - {name: city, type: String}
      - {name: owner, type: Person}
enumerations:
  - {name: Color, values: [RED, GREEN]}
`

func parse(t *testing.T, src string) *model.Specification {
	t.Helper()
	spec, err := document.YAML.Parse(strings.NewReader(src), "people.xddl.yaml")
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(spec))
	return spec
}

func TestElements(t *testing.T) {
	elems := Elements(parse(t, v1))

	got := make(map[string]string, len(elems))
	var paths []string
	for _, e := range elems {
		got[e.Path] = e.String()
		paths = append(paths, e.Path)
	}

	assert.Equal(t, "Long", got["Person.id"], "inherited fields are included")
	assert.Equal(t, "structure", got["Person.address"])
	assert.Equal(t, "String", got["Person.address.city"])
	assert.Equal(t, "structure", got["Person.address.owner"])
	assert.NotContains(t, got, "Person.address.owner.name", "a structure on the current path is not entered again")
	assert.Equal(t, "List<String>", got["Person.tags"])
	assert.Equal(t, "enumeration [RED, GREEN]", got["Person.color"])
	assert.Equal(t, "String", got["Person.contact.email"])
	assert.Equal(t, "Person.id", paths[0])
	assert.Contains(t, got, "Address.owner.address", "each top-level structure is a root")
}

func TestCompare(t *testing.T) {
	v2 := strings.NewReplacer(
		"{name: tags, type: {list: String}}", "{name: tags, type: {list: Long}}",
		"values: [RED, GREEN]", "values: [RED, GREEN, BLUE]",
		"{name: city, type: String}", "{name: town, type: String}",
		"{name: email, type: String}", "{name: email, type: String}, {name: phone, type: String}",
		"version: 1.0.0", "version: 2.0.0",
	).Replace(v1)

	changes := Compare(parse(t, v1), parse(t, v2))

	type row struct {
		path  string
		kind  ChangeKind
		left  string
		right string
	}
	var got []row
	for _, c := range changes {
		r := row{path: c.Path, kind: c.Kind()}
		if c.Left != nil {
			r.left = c.Left.String()
		}
		if c.Right != nil {
			r.right = c.Right.String()
		}
		got = append(got, r)
	}

	assert.Equal(t, []row{
		{"Address.city", Removed, "String", ""},
		{"Address.owner.color", Changed, "enumeration [RED, GREEN]", "enumeration [RED, GREEN, BLUE]"},
		{"Address.owner.contact.phone", Added, "", "String"},
		{"Address.owner.tags", Changed, "List<String>", "List<Long>"},
		{"Address.town", Added, "", "String"},
		{"Person.address.city", Removed, "String", ""},
		{"Person.address.town", Added, "", "String"},
		{"Person.color", Changed, "enumeration [RED, GREEN]", "enumeration [RED, GREEN, BLUE]"},
		{"Person.contact.phone", Added, "", "String"},
		{"Person.tags", Changed, "List<String>", "List<Long>"},
	}, got)
}

func TestCompare_Identical(t *testing.T) {
	changed := strings.Replace(v1, "title: People", "title: Everyone\ndescription: ignored", 1)
	assert.Empty(t, Compare(parse(t, v1), parse(t, changed)))
}
