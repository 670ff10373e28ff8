// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package jsonschema generates a JSON Schema (draft 2020-12) document from a
// specification.
package jsonschema

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "jsonschema"

// Draft is the $schema written to every generated document.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// ErrUnknownRoot is returned when the root option names no local structure.
var ErrUnknownRoot = errors.New("unknown root structure")

// Options configures the plugin.
type Options struct {
	// Root names a structure of the root document that instances must match.
	// Without it the document only carries $defs.
	Root string `yaml:"root"`
	// ID is written as $id.
	ID string `yaml:"id"`
}

// Plugin writes <slug>.schema.json.
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
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Generate builds the schema and writes it.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	schema, err := p.Schema(c)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal schema")
	}

	name := generate.Slug(c.Spec()) + ".schema.json"
	a, err := out.Write(name, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Schema builds the schema document for c. $defs holds every definition of
// the root document plus every imported definition reachable from them.
func (p *Plugin) Schema(c *plugin.Context) (*jsonschema.Schema, error) {
	spec := c.Spec()
	b := &builder{c: c, defs: make(map[string]*jsonschema.Schema), seen: make(map[model.Target]bool)}

	doc := &jsonschema.Schema{
		Schema:      Draft,
		ID:          p.opts.ID,
		Title:       spec.Title,
		Description: spec.Description,
	}
	if p.opts.Root != "" {
		st, ok := spec.Structure(p.opts.Root)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownRoot, "%q", p.opts.Root)
		}
		doc.Ref = b.ref(spec.TargetOf(st)).Ref
	}
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
		s, err := b.definition(def)
		if err != nil {
			return nil, err
		}
		b.defs[b.key(t)] = s
	}
	doc.Defs = b.defs
	return doc, nil
}

type builder struct {
	c     *plugin.Context
	defs  map[string]*jsonschema.Schema
	seen  map[model.Target]bool
	queue []model.Target
}

func (b *builder) key(t model.Target) string {
	return generate.QualifiedName(t, b.c.Local(t))
}

func (b *builder) enqueue(t model.Target) {
	if b.seen[t] {
		return
	}
	b.seen[t] = true
	b.queue = append(b.queue, t)
}

func (b *builder) ref(t model.Target) *jsonschema.Schema {
	b.enqueue(t)
	return &jsonschema.Schema{Ref: "#/$defs/" + b.key(t)}
}

func (b *builder) definition(def model.Definition) (*jsonschema.Schema, error) {
	switch def := def.(type) {
	case *model.Structure:
		obj, err := b.object(def.Name, def.Fields)
		if err != nil {
			return nil, err
		}
		if def.Extends == nil {
			obj.Description = def.Description
			return obj, nil
		}
		t, ok := def.Extends.Target()
		if !ok {
			return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "%s extends %s", def.Name, def.Extends.Name)
		}
		return &jsonschema.Schema{
			Description: def.Description,
			AllOf:       []*jsonschema.Schema{b.ref(t), obj},
		}, nil
	case *model.Enumeration:
		values := make([]any, len(def.Values))
		for i, v := range def.Values {
			values[i] = v.Value
		}
		return &jsonschema.Schema{Type: "string", Description: def.Description, Enum: values}, nil
	default:
		return nil, errors.Newf("unsupported definition %T", def)
	}
}

func (b *builder) object(owner string, fields []*model.Field) (*jsonschema.Schema, error) {
	obj := &jsonschema.Schema{Type: "object", Properties: make(map[string]*jsonschema.Schema, len(fields))}
	for _, f := range fields {
		prop, err := b.typeSchema(owner+"."+f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		prop.Description = f.Description
		if f.Default != nil {
			raw, err := json.Marshal(f.Default)
			if err != nil {
				return nil, errors.Wrapf(err, "default of %s.%s", owner, f.Name)
			}
			prop.Default = raw
		}
		obj.Properties[f.Name] = prop
		if !f.Optional {
			obj.Required = append(obj.Required, f.Name)
		}
	}
	return obj, nil
}

func (b *builder) typeSchema(path string, t model.TypeRef) (*jsonschema.Schema, error) {
	v := &typeVisitor{b: b, path: path}
	s := model.Visit[*jsonschema.Schema](t, v)
	return s, v.err
}

type typeVisitor struct {
	b    *builder
	path string
	err  error
}

func (v *typeVisitor) VisitPrimitive(p model.Primitive) *jsonschema.Schema {
	return primitive(p.Core)
}

func (v *typeVisitor) VisitNamed(r *model.NamedRef) *jsonschema.Schema {
	return v.reference(r)
}

func (v *typeVisitor) VisitEnum(r *model.EnumRef) *jsonschema.Schema {
	return v.reference(r)
}

func (v *typeVisitor) reference(r model.Reference) *jsonschema.Schema {
	t, ok := r.Target()
	if !ok {
		v.err = errors.Wrapf(plugin.ErrUnresolvedModel, "%s -> %s", v.path, r.Symbol())
		return &jsonschema.Schema{}
	}
	return v.b.ref(t)
}

func (v *typeVisitor) VisitList(l *model.ListOf) *jsonschema.Schema {
	items, err := v.b.typeSchema(v.path+"[]", l.Elem)
	if err != nil {
		v.err = err
	}
	return &jsonschema.Schema{Type: "array", Items: items}
}

func (v *typeVisitor) VisitInline(s *model.InlineStructure) *jsonschema.Schema {
	obj, err := v.b.object(v.path, s.Fields)
	if err != nil {
		v.err = err
		return &jsonschema.Schema{}
	}
	obj.Title = s.Description
	return obj
}

// primitive maps a core type onto a JSON type and, where one exists, a
// format annotation.
func primitive(core model.CoreType) *jsonschema.Schema {
	switch core {
	case model.String:
		return &jsonschema.Schema{Type: "string", MaxLength: ptr(255)}
	case model.Text:
		return &jsonschema.Schema{Type: "string"}
	case model.Date:
		return &jsonschema.Schema{Type: "string", Format: "date"}
	case model.Time:
		return &jsonschema.Schema{Type: "string", Format: "time"}
	case model.DateTime:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	case model.Integer:
		return &jsonschema.Schema{Type: "integer", Format: "int32"}
	case model.Long:
		return &jsonschema.Schema{Type: "integer", Format: "int64"}
	case model.Boolean:
		return &jsonschema.Schema{Type: "boolean"}
	case model.Float:
		return &jsonschema.Schema{Type: "number", Format: "float"}
	case model.Double:
		return &jsonschema.Schema{Type: "number", Format: "double"}
	case model.BigInteger:
		return &jsonschema.Schema{Type: "integer"}
	case model.BigDecimal:
		return &jsonschema.Schema{Type: "number"}
	case model.Binary:
		return &jsonschema.Schema{Type: "string", ContentEncoding: "base64"}
	default:
		return &jsonschema.Schema{}
	}
}

func ptr[T any](v T) *T {
	return &v
}
