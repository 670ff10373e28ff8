// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package pydantic generates Pydantic models from a specification.
package pydantic

import (
	"bytes"
	"embed"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "pydantic"

// ErrDuplicateMember indicates enumeration values that map to the same
// Python member name.
var ErrDuplicateMember = errors.New("duplicate enum member")

//go:embed pydantic.py.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("pydantic.py.tmpl").Funcs(template.FuncMap{
	"member": memberName,
	"quote":  strconv.Quote,
	"line":   func(s string) string { return strings.Join(strings.Fields(s), " ") },
	"doc": func(s string) string {
		return strings.ReplaceAll(strings.Join(strings.Fields(s), " "), `"""`, `\"\"\"`)
	},
}).ParseFS(tmplFS, "pydantic.py.tmpl"))

// Options configures the plugin.
type Options struct {
	// Module is the output file name without the .py extension; defaults to
	// the snake_case specification slug.
	Module string `yaml:"module"`
}

// Plugin writes one Python module declaring a model per structure and an
// Enum per enumeration.
type Plugin struct {
	opts Options
}

// New returns a Plugin with the given options.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Module != "" && (!isIdentifier(opts.Module) || keywords[opts.Module]) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "module %q is not a valid Python module name", opts.Module)
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Generate writes <module>.py.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	src, err := p.Source(c)
	if err != nil {
		return nil, err
	}
	module := p.opts.Module
	if module == "" {
		module = generate.ToSnakeCase(generate.Slug(c.Spec()))
	}
	name := module + ".py"
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Source returns the Python source for c.
func (p *Plugin) Source(c *plugin.Context) ([]byte, error) {
	data, err := generate.PrepareClosure(c, &resolver{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare schema data")
	}
	for _, e := range data.Enums {
		seen := make(map[string]string, len(e.Values))
		for _, v := range e.Values {
			m := memberName(v.Value)
			if prev, ok := seen[m]; ok {
				return nil, errors.Wrapf(ErrDuplicateMember, "%s: %q and %q both become %s", e.Name, prev, v.Value, m)
			}
			seen[m] = v.Value
		}
	}

	data.Defs = classOrder(data.Defs)
	for i := range data.Defs {
		requiredFirst(data.Defs[i].Fields)
	}
	data.Extra["Imports"] = imports(data)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "pydantic.py.tmpl", data); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n'), nil
}

// classOrder flattens inline structures next to their owner and puts every
// class after its base class.
func classOrder(defs []generate.TypeDef) []generate.TypeDef {
	var flat []generate.TypeDef
	for _, td := range defs {
		flat = append(flat, td.Inline...)
		td.Inline = nil
		flat = append(flat, td)
	}

	byName := make(map[string]generate.TypeDef, len(flat))
	for _, td := range flat {
		byName[td.Name] = td
	}
	out := make([]generate.TypeDef, 0, len(flat))
	done := make(map[string]bool, len(flat))
	var emit func(td generate.TypeDef)
	emit = func(td generate.TypeDef) {
		if done[td.Name] {
			return
		}
		done[td.Name] = true
		if len(td.Parents) > 0 {
			if parent, ok := byName[td.Parents[0]]; ok {
				emit(parent)
			}
		}
		out = append(out, td)
	}
	for _, td := range flat {
		emit(td)
	}
	return out
}

// requiredFirst moves required fields ahead of optional ones.
func requiredFirst(fields []generate.Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return !fields[i].Nullable && fields[j].Nullable
	})
}

// imports returns the import lines of the module, a blank entry separating
// the standard library from pydantic.
func imports(data *generate.SchemaData) []string {
	var datetime, decimal, optional, field bool
	for _, td := range data.Defs {
		for _, f := range td.Fields {
			datetime = datetime || strings.Contains(f.Type, "datetime.")
			decimal = decimal || strings.Contains(f.Type, "Decimal")
			optional = optional || strings.Contains(f.Type, "Optional[")
			field = field || strings.Contains(f.Tag, "Field(")
		}
	}

	var lines []string
	if datetime {
		lines = append(lines, "import datetime")
	}
	if decimal {
		lines = append(lines, "from decimal import Decimal")
	}
	if len(data.Enums) > 0 {
		lines = append(lines, "from enum import Enum")
	}
	if optional {
		lines = append(lines, "from typing import Optional")
	}
	if len(data.Defs) == 0 {
		return lines
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	if field {
		return append(lines, "from pydantic import BaseModel, Field")
	}
	return append(lines, "from pydantic import BaseModel")
}
