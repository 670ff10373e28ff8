// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package markdown

import (
	"embed"
	"io"
	"path"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "markdown"

//go:embed markdown.md.tmpl
var tmplFS embed.FS

var funcMap = template.FuncMap{
	"join": strings.Join,
	"cell": cell,
	"required": func(f generate.Field) string {
		if f.Nullable {
			return "no"
		}
		return "yes"
	},
}

var tmpl = template.Must(template.New("markdown.md.tmpl").Funcs(funcMap).ParseFS(tmplFS, "markdown.md.tmpl"))

// Options configures the plugin.
type Options struct {
	// Index also writes index.md listing every page.
	Index bool `yaml:"index"`
	// Dir is a subdirectory of the output location for the pages.
	Dir string `yaml:"dir"`
}

// Plugin documents each structure and enumeration of the root document.
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
	if opts.Dir != "" {
		if _, err := output.CleanName(opts.Dir); err != nil {
			return nil, errors.Wrapf(plugin.ErrInvalidOptions, "dir: %v", err)
		}
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

type structurePage struct {
	generate.TypeDef
	Format string
}

type enumerationPage struct {
	generate.EnumDef
	Format string
}

type indexPage struct {
	*generate.SchemaData
}

// Generate writes <Name>.md for every definition in declared order, then
// index.md when enabled.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	res := &resolver{}
	format := c.Formatter().Extension()

	var artifacts []output.Artifact
	for _, def := range c.Spec().Definitions() {
		var (
			name string
			page any
			kind string
		)
		switch def := def.(type) {
		case *model.Structure:
			td, err := generate.PrepareStructure(c, def, res)
			if err != nil {
				return artifacts, err
			}
			name, page, kind = def.Name, structurePage{TypeDef: td, Format: format}, "structure"
		case *model.Enumeration:
			ed, err := generate.PrepareEnumeration(c, def, res)
			if err != nil {
				return artifacts, err
			}
			name, page, kind = def.Name, enumerationPage{EnumDef: ed, Format: format}, "enumeration"
		}

		a, err := p.write(out, name+".md", kind, page)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}

	if p.opts.Index {
		data, err := generate.Prepare(c, res)
		if err != nil {
			return artifacts, err
		}
		if data.Title == "" {
			data.Title = generate.DocumentName(c.Spec().Source)
		}
		if v := c.Spec().SemVer(); v != nil {
			data.Version = v.String()
		}
		a, err := p.write(out, "index.md", "index", indexPage{SchemaData: data})
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

func (p *Plugin) write(out output.Location, name, tmplName string, data any) (output.Artifact, error) {
	if p.opts.Dir != "" {
		name = path.Join(p.opts.Dir, name)
	}
	a, err := out.Write(name, func(w io.Writer) error {
		return tmpl.ExecuteTemplate(w, tmplName, data)
	})
	if err != nil {
		return output.Artifact{}, errors.Wrapf(err, "failed to write %s", name)
	}
	return a, nil
}
