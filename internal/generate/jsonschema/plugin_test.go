// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jsonschema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/resolve"
)

const peopleYAML = `
title: People Directory
description: People and places
structures:
  - name: Person
    extends: Base
    fields:
      - {name: name, type: String, required: true}
      - {name: address, type: Address}
      - {name: colors, type: {list: {enum: Color}}}
      - {name: country, type: Country, default: FR}
      - name: contact
        type: {structure: {fields: [{name: email, type: Text, required: true}]}}
  - name: Base
    fields:
      - {name: id, type: Long, required: true}
  - name: Address
    fields:
      - {name: city, type: String}
enumerations:
  - name: Color
    values: [RED, GREEN]
`

func peopleContext(t *testing.T) *plugin.Context {
	t.Helper()
	geo, err := document.YAML.Parse(strings.NewReader(`
enumerations:
  - {name: Country, values: [FR, DE]}
  - {name: Unused, values: [X]}
`), "geo.xddl.yaml")
	require.NoError(t, err)

	spec, err := document.YAML.Parse(strings.NewReader(peopleYAML), "people.xddl.yaml")
	require.NoError(t, err)
	require.NoError(t, spec.AddImport(geo))
	require.NoError(t, resolve.Resolve(spec))

	c, err := plugin.NewContext(document.JSONFormat, spec)
	require.NoError(t, err)
	return c
}

func TestSchema(t *testing.T) {
	schema, err := New(Options{}).Schema(peopleContext(t))
	require.NoError(t, err)

	assert.Equal(t, Draft, schema.Schema)
	assert.Equal(t, "People Directory", schema.Title)
	assert.Empty(t, schema.Ref)

	keys := make([]string, 0, len(schema.Defs))
	for k := range schema.Defs {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"Person", "Base", "Address", "Color", "GeoCountry"}, keys,
		"imported definitions are included only when reachable")

	person := schema.Defs["Person"]
	require.Len(t, person.AllOf, 2)
	assert.Equal(t, "#/$defs/Base", person.AllOf[0].Ref)

	obj := person.AllOf[1]
	assert.Equal(t, "object", obj.Type)
	assert.Equal(t, []string{"name"}, obj.Required)
	assert.Equal(t, "string", obj.Properties["name"].Type)
	require.NotNil(t, obj.Properties["name"].MaxLength)
	assert.Equal(t, 255, *obj.Properties["name"].MaxLength)
	assert.Equal(t, "#/$defs/Address", obj.Properties["address"].Ref)
	assert.Equal(t, "array", obj.Properties["colors"].Type)
	assert.Equal(t, "#/$defs/Color", obj.Properties["colors"].Items.Ref)
	assert.Equal(t, "#/$defs/GeoCountry", obj.Properties["country"].Ref)
	assert.JSONEq(t, `"FR"`, string(obj.Properties["country"].Default))
	assert.Equal(t, "object", obj.Properties["contact"].Type)
	assert.Equal(t, []string{"email"}, obj.Properties["contact"].Required)

	assert.Equal(t, "integer", schema.Defs["Base"].Properties["id"].Type)
	assert.Equal(t, "int64", schema.Defs["Base"].Properties["id"].Format)
	assert.Equal(t, []any{"RED", "GREEN"}, schema.Defs["Color"].Enum)
}

func TestGenerate_Validates(t *testing.T) {
	out := output.NewMemory()
	artifacts, err := New(Options{Root: "Person", ID: "https://example.com/people"}).Generate(peopleContext(t), out)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "people-directory.schema.json", artifacts[0].Name)

	data, ok := out.Get("people-directory.schema.json")
	require.True(t, ok)

	var schema jsonschema.Schema
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "#/$defs/Person", schema.Ref)

	resolved, err := schema.Resolve(nil)
	require.NoError(t, err)

	valid := map[string]any{
		"id":      float64(7),
		"name":    "Ada",
		"colors":  []any{"RED"},
		"country": "DE",
		"contact": map[string]any{"email": "ada@example.com"},
	}
	require.NoError(t, resolved.Validate(valid))

	tests := []struct {
		name     string
		instance map[string]any
	}{
		{"missing inherited field", map[string]any{"name": "Ada"}},
		{"unknown color", map[string]any{"id": float64(1), "name": "Ada", "colors": []any{"BLUE"}}},
		{"wrong type", map[string]any{"id": "one", "name": "Ada"}},
		{"inline required", map[string]any{"id": float64(1), "name": "Ada", "contact": map[string]any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, resolved.Validate(tt.instance))
		})
	}
}

func TestGenerate_UnknownRoot(t *testing.T) {
	_, err := New(Options{Root: "Color"}).Generate(peopleContext(t), output.NewMemory())
	require.ErrorIs(t, err, ErrUnknownRoot)
}

func TestFactory(t *testing.T) {
	p, err := Factory(nil)
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name())
}
