// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/resolve"
)

const peopleYAML = `
title: People
version: 1.2.0
structures:
  - name: Person
    extends: Base
    description: Somebody we know.
    fields:
      - {name: full_name, type: String, required: true}
      - {name: birth_date, type: Date}
      - {name: home_url, type: String}
      - {name: colors, type: {list: {enum: Color}}}
      - {name: country, type: Country, required: true}
      - {name: savings, type: BigDecimal}
      - name: contact
        type: {structure: {fields: [{name: email, type: Text, required: true}]}}
  - name: Base
    fields:
      - {name: id, type: Long, required: true, description: Primary key}
enumerations:
  - name: Color
    values: [RED, {value: DARK_GREEN, description: like a forest}]
`

func peopleContext(t *testing.T) *plugin.Context {
	t.Helper()
	geo, err := document.YAML.Parse(strings.NewReader(`
enumerations:
  - {name: Country, values: [FR, DE]}
`), "geo.xddl.yaml")
	require.NoError(t, err)

	spec, err := document.YAML.Parse(strings.NewReader(peopleYAML), "people.xddl.yaml")
	require.NoError(t, err)
	require.NoError(t, spec.AddImport(geo))
	require.NoError(t, resolve.Resolve(spec))

	c, err := plugin.NewContext(document.YAMLFormat, spec)
	require.NoError(t, err)
	return c
}

// squash collapses every run of blanks so assertions ignore gofmt alignment.
func squash(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func TestSource(t *testing.T) {
	src, err := New(Options{}).Source(peopleContext(t))
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), "people.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source must parse:\n%s", src)

	result := squash(string(src))

	tests := []struct {
		name string
		want string
	}{
		{"header", "// Code generated by xddl. DO NOT EDIT.\n// Source: People 1.2.0\n\npackage schema"},
		{"imports", "import (\n\"math/big\"\n\"time\"\n)"},
		{"doc comment", "// Person Somebody we know.\ntype Person struct {\nBase\n"},
		{"required field", "FullName string `json:\"full_name\"`"},
		{"optional date", "BirthDate *time.Time `json:\"birth_date,omitempty\"`"},
		{"acronym", "HomeURL *string `json:\"home_url,omitempty\"`"},
		{"list is not a pointer", "Colors []Color `json:\"colors,omitempty\"`"},
		{"imported enumeration", "Country GeoCountry `json:\"country\"`"},
		{"big decimal", "Savings *big.Float `json:\"savings,omitempty\"`"},
		{"inline reference", "Contact *PersonContact `json:\"contact,omitempty\"`"},
		{"inline type", "type PersonContact struct {\nEmail string `json:\"email\"`\n}"},
		{"field comment", "ID int64 `json:\"id\"` // Primary key"},
		{"enum type", "type Color string"},
		{"enum values", "ColorRed Color = \"RED\"\nColorDarkGreen Color = \"DARK_GREEN\" // like a forest"},
		{"imported enum type", "type GeoCountry string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, result, tt.want)
		})
	}
}

func TestSource_NoImports(t *testing.T) {
	spec, err := document.YAML.Parse(strings.NewReader(`
structures:
  - name: Point
    fields: [{name: x, type: Double, required: true}]
`), "geometry.xddl.yaml")
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(spec))
	c, err := plugin.NewContext(document.YAMLFormat, spec)
	require.NoError(t, err)

	src, err := New(Options{Package: "geo"}).Source(c)
	require.NoError(t, err)
	result := squash(string(src))
	assert.Contains(t, result, "package geo")
	assert.NotContains(t, result, "import")
	assert.Contains(t, result, "X float64 `json:\"x\"`")
}

func TestGenerate(t *testing.T) {
	out := output.NewMemory()
	artifacts, err := New(Options{Package: "people"}).Generate(peopleContext(t), out)
	require.NoError(t, err)

	require.Len(t, artifacts, 1)
	assert.Equal(t, "people/people.go", artifacts[0].Name)
	got, ok := out.Get("people/people.go")
	require.True(t, ok)
	assert.Contains(t, string(got), "package people")
}

func TestFactory(t *testing.T) {
	tests := []struct {
		name    string
		options string
		wantErr bool
	}{
		{name: "no options", options: ""},
		{name: "package", options: "package: models"},
		{name: "keyword package", options: "package: type", wantErr: true},
		{name: "invalid package", options: "package: my-models", wantErr: true},
		{name: "unknown option", options: "pkg: x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node *yaml.Node
			if tt.options != "" {
				var doc yaml.Node
				require.NoError(t, yaml.Unmarshal([]byte(tt.options), &doc))
				node = doc.Content[0]
			}
			p, err := Factory(node)
			if tt.wantErr {
				require.ErrorIs(t, err, plugin.ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Name, p.Name())
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := map[string]string{
		"full_name":      "FullName",
		"user-id":        "UserID",
		"Person.contact": "PersonContact",
		"apiKey":         "ApiKey",
		"2fa":            "X2fa",
	}
	for in, want := range tests {
		assert.Equal(t, want, toPascalCase(in), in)
	}
}
