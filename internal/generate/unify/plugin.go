// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package unify writes a specification and everything it imports as a
// single self-contained document.
package unify

import (
	"io"
	"maps"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "unify"

// Options configures the plugin.
type Options struct {
	// Format overrides the context formatter: yaml, json or toml.
	Format string `yaml:"format"`
}

// Plugin writes <slug>.xddl.<ext>.
type Plugin struct {
	formatter document.Formatter
}

// New returns a Plugin. A nil formatter uses the context formatter.
func New(formatter document.Formatter) *Plugin {
	return &Plugin{formatter: formatter}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		return New(nil), nil
	}
	f, err := document.FormatterFor(opts.Format)
	if err != nil {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "format: %v", err)
	}
	return New(f), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// Generate flattens the specification and writes it with the formatter.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	flat, err := Flatten(c.Spec())
	if err != nil {
		return nil, err
	}
	f := p.formatter
	if f == nil {
		f = c.Formatter()
	}
	data, err := f.Marshal(flat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal unified specification")
	}

	name := generate.Slug(c.Spec()) + ".xddl." + f.Extension()
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Flatten returns a new, unresolved specification carrying the metadata of
// spec and a copy of every definition of spec.Documents(), in lookup order.
// A definition whose name is already taken is renamed after its document,
// and references bound to it follow the new name.
func Flatten(spec *model.Specification) (*model.Specification, error) {
	flat, err := model.New(model.Meta{
		Source:      spec.Source,
		Title:       spec.Title,
		Version:     spec.Version,
		Description: spec.Description,
		Comment:     spec.Comment,
		Ext:         maps.Clone(spec.Ext),
	})
	if err != nil {
		return nil, err
	}

	names := make(map[model.Target]string)
	taken := make(map[string]bool)
	for _, doc := range spec.Documents() {
		for _, def := range doc.Definitions() {
			t := doc.TargetOf(def)
			name := def.DefinitionName()
			if taken[name] {
				name = generate.QualifiedName(t, false)
			}
			for i := 2; taken[name]; i++ {
				name = generate.QualifiedName(t, false) + strconv.Itoa(i)
			}
			taken[name] = true
			names[t] = name
		}
	}

	cp := &copier{names: names}
	for _, doc := range spec.Documents() {
		for _, def := range doc.Definitions() {
			d, err := cp.definition(names[doc.TargetOf(def)], def)
			if err != nil {
				return nil, err
			}
			if err := flat.Add(d); err != nil {
				return nil, err
			}
		}
	}
	return flat, nil
}

type copier struct {
	names map[model.Target]string
}

func (cp *copier) definition(name string, def model.Definition) (model.Definition, error) {
	switch def := def.(type) {
	case *model.Structure:
		st := &model.Structure{
			Name:        name,
			Description: def.Description,
			Comment:     def.Comment,
			Ext:         maps.Clone(def.Ext),
		}
		if def.Extends != nil {
			parent, err := cp.name(def.Extends)
			if err != nil {
				return nil, err
			}
			st.Extends = &model.NamedRef{Name: parent}
		}
		fields, err := cp.fields(def.Fields)
		if err != nil {
			return nil, err
		}
		st.Fields = fields
		return st, nil
	case *model.Enumeration:
		return &model.Enumeration{
			Name:        name,
			Description: def.Description,
			Comment:     def.Comment,
			Values:      append([]model.EnumValue(nil), def.Values...),
			Ext:         maps.Clone(def.Ext),
		}, nil
	default:
		return nil, errors.Newf("unsupported definition %T", def)
	}
}

func (cp *copier) name(r model.Reference) (string, error) {
	t, ok := r.Target()
	if !ok {
		return "", errors.Wrapf(plugin.ErrUnresolvedModel, "reference to %s has no target", r.Symbol())
	}
	name, ok := cp.names[t]
	if !ok {
		return "", errors.Wrapf(plugin.ErrUnresolvedModel, "no definition for %s", t)
	}
	return name, nil
}

func (cp *copier) fields(fields []*model.Field) ([]*model.Field, error) {
	out := make([]*model.Field, len(fields))
	for i, f := range fields {
		typ, err := cp.typeRef(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = &model.Field{
			Name:        f.Name,
			Type:        typ,
			Optional:    f.Optional,
			Default:     f.Default,
			Description: f.Description,
			Comment:     f.Comment,
			Ext:         maps.Clone(f.Ext),
		}
	}
	return out, nil
}

func (cp *copier) typeRef(t model.TypeRef) (model.TypeRef, error) {
	v := &typeCopier{cp: cp}
	out := model.Visit[model.TypeRef](t, v)
	return out, v.err
}

// typeCopier rebuilds a type reference with unbound, renamed references.
type typeCopier struct {
	cp  *copier
	err error
}

func (v *typeCopier) VisitPrimitive(p model.Primitive) model.TypeRef {
	return p
}

func (v *typeCopier) VisitNamed(r *model.NamedRef) model.TypeRef {
	name, err := v.cp.name(r)
	if err != nil {
		v.err = err
	}
	return &model.NamedRef{Name: name}
}

func (v *typeCopier) VisitEnum(r *model.EnumRef) model.TypeRef {
	name, err := v.cp.name(r)
	if err != nil {
		v.err = err
	}
	return &model.EnumRef{Name: name}
}

func (v *typeCopier) VisitList(l *model.ListOf) model.TypeRef {
	elem, err := v.cp.typeRef(l.Elem)
	if err != nil {
		v.err = err
	}
	return &model.ListOf{Elem: elem}
}

func (v *typeCopier) VisitInline(s *model.InlineStructure) model.TypeRef {
	fields, err := v.cp.fields(s.Fields)
	if err != nil {
		v.err = err
	}
	return &model.InlineStructure{Description: s.Description, Fields: fields}
}
