// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package protobuf generates Protocol Buffers (proto3) message definitions
// from a specification.
package protobuf

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "protobuf"

// ErrNestedList indicates a list of lists, which proto3 cannot express.
var ErrNestedList = errors.New("nested lists are not supported by proto3")

//go:embed protobuf.proto.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("protobuf.proto.tmpl").Funcs(template.FuncMap{
	"enumValue": enumValue,
	"inc":       func(i int) int { return i + 1 },
	"line":      func(s string) string { return strings.Join(strings.Fields(s), " ") },
}).ParseFS(tmplFS, "protobuf.proto.tmpl"))

var packagePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)

// Options configures the plugin.
type Options struct {
	// Package is the proto package; defaults to the specification slug.
	Package string `yaml:"package"`
}

// Plugin writes one .proto file with a message per structure and an enum
// per enumeration.
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
	if opts.Package != "" && !packagePattern.MatchString(opts.Package) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "package %q is not a valid proto package", opts.Package)
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Generate writes <slug>.proto.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	src, err := p.Source(c)
	if err != nil {
		return nil, err
	}
	name := generate.Slug(c.Spec()) + ".proto"
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Source returns the proto3 source for c.
func (p *Plugin) Source(c *plugin.Context) ([]byte, error) {
	data, err := generate.PrepareClosure(c, &resolver{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare schema data")
	}

	pkg := p.opts.Package
	if pkg == "" {
		pkg = generate.ToSnakeCase(generate.Slug(c.Spec()))
	}
	data.Extra["Package"] = pkg

	usesTimestamp := false
	for i := range data.Defs {
		if err := number(&data.Defs[i], &usesTimestamp); err != nil {
			return nil, err
		}
	}
	if usesTimestamp {
		data.Extra["Imports"] = []string{"google/protobuf/timestamp.proto"}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "protobuf.proto.tmpl", data); err != nil {
		return nil, errors.Wrap(err, "failed to execute template")
	}
	return buf.Bytes(), nil
}

// number flattens inherited fields into td, farthest ancestor first, and
// sets sequential field numbers (= 1, = 2, ...) on td and its inline
// messages.
func number(td *generate.TypeDef, usesTimestamp *bool) error {
	td.Fields = append(append([]generate.Field(nil), td.Inherited...), td.Fields...)
	td.Inherited = nil
	for j := range td.Fields {
		f := &td.Fields[j]
		if strings.Count(f.Type, repeated) > 1 {
			return errors.Wrapf(ErrNestedList, "%s.%s", td.Path, f.Name)
		}
		if strings.Contains(f.Type, timestamp) {
			*usesTimestamp = true
		}
		f.Tag = fmt.Sprintf("= %d", j+1)
	}
	for i := range td.Inline {
		if err := number(&td.Inline[i], usesTimestamp); err != nil {
			return err
		}
	}
	return nil
}
