// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package gotypes generates Go type declarations from a specification.
package gotypes

import (
	"bytes"
	"embed"
	"go/format"
	"go/token"
	"io"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "gotypes"

// DefaultPackage is the package name used when none is configured.
const DefaultPackage = "schema"

//go:embed gotypes.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("gotypes.go.tmpl").Funcs(template.FuncMap{
	"constName": constName,
	"line":      func(s string) string { return strings.Join(strings.Fields(s), " ") },
}).ParseFS(tmplFS, "gotypes.go.tmpl"))

// Options configures the plugin.
type Options struct {
	// Package is the Go package name, also used as the output directory.
	Package string `yaml:"package"`
}

// Plugin writes one Go file declaring a type per definition.
type Plugin struct {
	opts Options
}

// New returns a Plugin with the given options.
func New(opts Options) *Plugin {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}
	return &Plugin{opts: opts}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Package != "" && (!token.IsIdentifier(opts.Package) || token.IsKeyword(opts.Package)) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "package %q is not a valid Go package name", opts.Package)
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Generate writes <package>/<slug>.go.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	src, err := p.Source(c)
	if err != nil {
		return nil, err
	}
	name := path.Join(p.opts.Package, generate.Slug(c.Spec())+".go")
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Source returns the gofmt-formatted Go source for c.
func (p *Plugin) Source(c *plugin.Context) ([]byte, error) {
	data, err := generate.PrepareClosure(c, &resolver{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare schema data")
	}
	data.Extra["Package"] = p.opts.Package
	data.Extra["Imports"] = imports(data)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "gotypes.go.tmpl", data); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "generated source does not parse")
	}
	return src, nil
}

// imports returns the standard packages the field types need.
func imports(data *generate.SchemaData) []string {
	need := make(map[string]bool)
	var scan func(defs []generate.TypeDef)
	scan = func(defs []generate.TypeDef) {
		for _, td := range defs {
			for _, f := range td.Fields {
				if strings.Contains(f.Type, "time.Time") {
					need["time"] = true
				}
				if strings.Contains(f.Type, "big.") {
					need["math/big"] = true
				}
			}
			scan(td.Inline)
		}
	}
	scan(data.Defs)

	out := make([]string, 0, len(need))
	for pkg := range need {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}
