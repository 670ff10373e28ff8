// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package graphviz renders a specification as a Graphviz DOT diagram.
package graphviz

import (
	"embed"
	"fmt"
	"io"
	"slices"
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
const Name = "graphviz"

//go:embed graph.dot.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.New("graph.dot.tmpl").
	Funcs(template.FuncMap{"quote": quote}).
	ParseFS(tmplFS, "graph.dot.tmpl"))

var rankDirs = []string{"LR", "RL", "TB", "BT"}

// Options configures the plugin.
type Options struct {
	// RankDir is the Graphviz layout direction, LR by default.
	RankDir string `yaml:"rankdir"`
}

// Plugin writes <slug>.dot.
type Plugin struct {
	opts Options
}

// New returns a Plugin with the given options.
func New(opts Options) *Plugin {
	if opts.RankDir == "" {
		opts.RankDir = "LR"
	}
	return &Plugin{opts: opts}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	opts.RankDir = strings.ToUpper(opts.RankDir)
	if opts.RankDir != "" && !slices.Contains(rankDirs, opts.RankDir) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "rankdir %q must be one of %s",
			opts.RankDir, strings.Join(rankDirs, ", "))
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

type graph struct {
	Name    string
	RankDir string
	Nodes   []node
	Edges   []edge
}

type node struct {
	ID       string
	Label    string
	Imported bool
}

type edge struct {
	From  string
	To    string
	Attrs string
}

// Generate writes the diagram.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	g, err := p.build(c)
	if err != nil {
		return nil, err
	}
	name := generate.Slug(c.Spec()) + ".dot"
	a, err := out.Write(name, func(w io.Writer) error {
		return tmpl.Execute(w, g)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// build collects one node per root definition, per imported definition
// reachable from them and per inline structure, and one edge per reference
// and parent.
func (p *Plugin) build(c *plugin.Context) (*graph, error) {
	spec := c.Spec()
	b := &graphBuilder{c: c, res: &resolver{}, seen: make(map[model.Target]bool)}
	b.g = &graph{Name: generate.Slug(spec), RankDir: p.opts.RankDir}

	for _, def := range spec.Definitions() {
		b.enqueue(spec.TargetOf(def))
	}
	for len(b.queue) > 0 {
		t := b.queue[0]
		b.queue = b.queue[1:]
		def, ok := spec.Deref(t)
		if !ok {
			return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "no definition for %s", t)
		}
		if err := b.definition(t, def); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

type graphBuilder struct {
	c     *plugin.Context
	res   *resolver
	g     *graph
	seen  map[model.Target]bool
	queue []model.Target
}

func (b *graphBuilder) enqueue(t model.Target) {
	if !b.seen[t] {
		b.seen[t] = true
		b.queue = append(b.queue, t)
	}
}

func (b *graphBuilder) id(t model.Target) string {
	return generate.QualifiedName(t, b.c.Local(t))
}

func (b *graphBuilder) definition(t model.Target, def model.Definition) error {
	id := b.id(t)
	imported := !b.c.Local(t)

	switch def := def.(type) {
	case *model.Enumeration:
		values := make([]string, len(def.Values))
		for i, v := range def.Values {
			values[i] = v.Value
		}
		b.g.Nodes = append(b.g.Nodes, node{ID: id, Label: record("«enumeration» "+id, values), Imported: imported})
		return nil
	case *model.Structure:
		td, err := generate.PrepareStructure(b.c, def, b.res)
		if err != nil {
			return err
		}
		b.g.Nodes = append(b.g.Nodes, node{ID: id, Label: record(id, fieldLines(td.Fields)), Imported: imported})
		for _, in := range td.Inline {
			b.g.Nodes = append(b.g.Nodes, node{ID: id + "." + trimOwner(in.Path), Label: record(in.Path, fieldLines(in.Fields)), Imported: imported})
		}

		if def.Extends != nil {
			parent, ok := def.Extends.Target()
			if !ok {
				return errors.Wrapf(plugin.ErrUnresolvedModel, "%s extends %s", def.Name, def.Extends.Name)
			}
			b.enqueue(parent)
			b.g.Edges = append(b.g.Edges, edge{From: id, To: b.id(parent), Attrs: "arrowhead=empty"})
		}
		return b.fields(id, def.Fields)
	default:
		return errors.Newf("unsupported definition %T", def)
	}
}

// fields adds the edges leaving owner.
func (b *graphBuilder) fields(owner string, fields []*model.Field) error {
	for _, f := range fields {
		if err := b.typeEdges(owner, f.Name, f.Type, false); err != nil {
			return err
		}
	}
	return nil
}

func (b *graphBuilder) typeEdges(owner, field string, t model.TypeRef, list bool) error {
	switch t := t.(type) {
	case *model.NamedRef:
		return b.refEdge(owner, field, t, list)
	case *model.EnumRef:
		return b.refEdge(owner, field, t, list)
	case *model.ListOf:
		return b.typeEdges(owner, field+"[]", t.Elem, true)
	case *model.InlineStructure:
		inner := owner + "." + field
		attrs := "arrowtail=diamond, dir=back"
		if list {
			attrs += `, headlabel="*"`
		}
		b.g.Edges = append(b.g.Edges, edge{From: owner, To: inner, Attrs: attrs})
		return b.fields(inner, t.Fields)
	}
	return nil
}

func (b *graphBuilder) refEdge(owner, field string, r model.Reference, list bool) error {
	t, ok := r.Target()
	if !ok {
		return errors.Wrapf(plugin.ErrUnresolvedModel, "%s.%s -> %s", owner, field, r.Symbol())
	}
	b.enqueue(t)
	attrs := fmt.Sprintf("style=dashed, label=%s", quote(strings.TrimRight(field, "[]")))
	if list {
		attrs += `, headlabel="*"`
	}
	b.g.Edges = append(b.g.Edges, edge{From: owner, To: b.id(t), Attrs: attrs})
	return nil
}

// trimOwner drops the structure name from an inline path.
func trimOwner(path string) string {
	_, rest, _ := strings.Cut(path, ".")
	return rest
}

func fieldLines(fields []generate.Field) []string {
	lines := make([]string, len(fields))
	for i, f := range fields {
		opt := ""
		if f.Nullable {
			opt = "?"
		}
		lines[i] = f.Name + opt + " : " + f.Type
	}
	return lines
}

// record builds a record label with a title cell and one left-aligned line
// per entry.
func record(title string, lines []string) string {
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(escape(title))
	sb.WriteString("|")
	for _, l := range lines {
		sb.WriteString(escape(l))
		sb.WriteString(`\l`)
	}
	sb.WriteString("}")
	return sb.String()
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func escape(s string) string {
	return recordEscaper.Replace(s)
}

// quote returns s as a DOT string. Backslashes are kept so that record
// escapes such as \l reach Graphviz.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// resolver names types the way they appear inside record labels.
type resolver struct{}

func (r *resolver) PrimitiveType(core model.CoreType) string { return core.String() }
func (r *resolver) ListType(elemType string) string { return "List<" + elemType + ">" }
func (r *resolver) InlineType(path string) string { return path }
func (r *resolver) FormatDefName(name string) string { return name }
func (r *resolver) EnrichField(_ *generate.Field) {}

func (r *resolver) RefType(t model.Target, local bool) string {
	return generate.QualifiedName(t, local)
}
