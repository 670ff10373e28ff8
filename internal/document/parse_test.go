// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

const peopleYAML = `
title: People
version: 1.2.0
description: People and places
ext: {owner: team-a}
structures:
  - name: Person
    extends: Base
    fields:
      - {name: name, type: String, required: true}
      - {name: address, type: Address}
      - {name: tags, type: {list: string}}
      - {name: color, type: {enum: Color}}
      - name: contact
        type: {structure: {fields: [{name: email, type: Text}]}}
  - name: Base
    fields:
      - {name: id, type: {primitive: long}, required: true}
  - name: Address
    fields:
      - {name: city, type: String, default: Paris}
enumerations:
  - name: Color
    values: [RED, {value: GREEN, description: go}]
`

const peopleJSON = `{
  "title": "People",
  "version": "1.2.0",
  "description": "People and places",
  "ext": {"owner": "team-a"},
  "structures": [
    {"name": "Person", "extends": "Base", "fields": [
      {"name": "name", "type": "String", "required": true},
      {"name": "address", "type": "Address"},
      {"name": "tags", "type": {"list": "string"}},
      {"name": "color", "type": {"enum": "Color"}},
      {"name": "contact", "type": {"structure": {"fields": [{"name": "email", "type": "Text"}]}}}
    ]},
    {"name": "Base", "fields": [{"name": "id", "type": {"primitive": "long"}, "required": true}]},
    {"name": "Address", "fields": [{"name": "city", "type": "String", "default": "Paris"}]}
  ],
  "enumerations": [
    {"name": "Color", "values": ["RED", {"value": "GREEN", "description": "go"}]}
  ]
}`

const peopleTOML = `
title = "People"
version = "1.2.0"
description = "People and places"

[ext]
owner = "team-a"

[[structures]]
name = "Person"
extends = "Base"
fields = [
  {name = "name", type = "String", required = true},
  {name = "address", type = "Address"},
  {name = "tags", type = {list = "string"}},
  {name = "color", type = {enum = "Color"}},
  {name = "contact", type = {structure = {fields = [{name = "email", type = "Text"}]}}},
]

[[structures]]
name = "Base"
fields = [{name = "id", type = {primitive = "long"}, required = true}]

[[structures]]
name = "Address"
fields = [{name = "city", type = "String", default = "Paris"}]

[[enumerations]]
name = "Color"
values = ["RED", {value = "GREEN", description = "go"}]
`

func TestParse_People(t *testing.T) {
	tests := []struct {
		name   string
		parser Parser
		input  string
	}{
		{"YAML", YAML, peopleYAML},
		{"JSON", JSON, peopleJSON},
		{"TOML", TOML, peopleTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := tt.parser.Parse(strings.NewReader(tt.input), "people")
			require.NoError(t, err)

			assert.Equal(t, "people", spec.Source)
			assert.Equal(t, "People", spec.Title)
			assert.Equal(t, "1.2.0", spec.SemVer().String())
			assert.Equal(t, "team-a", spec.Ext["owner"])

			names := make([]string, 0, spec.Len())
			for name := range spec.All() {
				names = append(names, name)
			}
			assert.Equal(t, []string{"Person", "Base", "Address", "Color"}, names)

			person, ok := spec.Structure("Person")
			require.True(t, ok)
			require.NotNil(t, person.Extends)
			assert.Equal(t, "Base", person.Extends.Name)
			require.Len(t, person.Fields, 5)

			assert.Equal(t, model.Primitive{Core: model.String}, person.Fields[0].Type)
			assert.False(t, person.Fields[0].Optional)
			assert.True(t, person.Fields[1].Optional)
			assert.Equal(t, &model.NamedRef{Name: "Address"}, person.Fields[1].Type)
			assert.Equal(t, "List<String>", person.Fields[2].Type.String())
			assert.Equal(t, "enum Color", person.Fields[3].Type.String())
			assert.Equal(t, "{email: Text}", person.Fields[4].Type.String())

			base, _ := spec.Structure("Base")
			assert.Equal(t, model.Primitive{Core: model.Long}, base.Fields[0].Type)

			addr, _ := spec.Structure("Address")
			assert.Equal(t, "Paris", addr.Fields[0].Default)

			color, ok := spec.Enumeration("Color")
			require.True(t, ok)
			assert.Equal(t, []model.EnumValue{{Value: "RED"}, {Value: "GREEN", Description: "go"}}, color.Values)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate top level name", `
structures: [{name: A, fields: []}]
enumerations: [{name: A, values: [X]}]`},
		{"missing type", `structures: [{name: A, fields: [{name: x}]}]`},
		{"two type keys", `structures: [{name: A, fields: [{name: x, type: {ref: B, enum: C}}]}]`},
		{"unknown primitive", `structures: [{name: A, fields: [{name: x, type: {primitive: Money}}]}]`},
		{"duplicate field", `structures: [{name: A, fields: [{name: x, type: String}, {name: x, type: Long}]}]`},
		{"empty enumeration", `enumerations: [{name: E, values: []}]`},
		{"bad version", "version: not-a-version\n"},
		{"unnamed structure", `structures: [{fields: []}]`},
		{"delete outside a patch", `structures: [{name: A, fields: [{name: x, delete: true}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := YAML.Parse(strings.NewReader(tt.input), "bad")
			require.ErrorIs(t, err, model.ErrMalformedSpecification)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := YAML.Parse(strings.NewReader(""), "empty")
	require.Error(t, err)

	_, err = JSON.Parse(strings.NewReader("{not json"), "broken")
	require.Error(t, err)

	_, err = YAML.Parse(nil, "nil")
	require.Error(t, err)

	_, err = YAML.Parse(strings.NewReader("imports: [other.yaml]\n"), "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Loader")
}

func TestParserFor(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"spec.yaml", "yaml"},
		{"spec.YML", "yaml"},
		{"dir/spec.json", "json"},
		{"spec.toml", "toml"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			p, err := ParserFor(tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}

	_, err := ParserFor("spec.xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, IsDocument("README.md"))
	assert.True(t, IsDocument("a.xddl.toml"))
}
