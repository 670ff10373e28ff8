// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// prepareContext holds mutable state while one structure is prepared.
type prepareContext struct {
	c        *plugin.Context
	resolver TypeResolver
	inline   []TypeDef // inline structures extracted as named types
}

// Prepare converts the root document of c into SchemaData: every structure
// and enumeration in declared order, with types resolved by resolver.
func Prepare(c *plugin.Context, resolver TypeResolver) (*SchemaData, error) {
	spec := c.Spec()
	data := &SchemaData{
		Title:       spec.Title,
		Version:     spec.Version,
		Description: spec.Description,
		Extra:       make(map[string]any),
	}
	for _, def := range spec.Definitions() {
		switch def := def.(type) {
		case *model.Structure:
			td, err := PrepareStructure(c, def, resolver)
			if err != nil {
				return nil, err
			}
			data.Defs = append(data.Defs, td)
		case *model.Enumeration:
			ed, err := PrepareEnumeration(c, def, resolver)
			if err != nil {
				return nil, err
			}
			data.Enums = append(data.Enums, ed)
		}
	}
	return data, nil
}

// PrepareStructure builds the template input for st. Inline structures met
// while resolving field types are extracted into TypeDef.Inline, outermost
// first.
func PrepareStructure(c *plugin.Context, st *model.Structure, resolver TypeResolver) (TypeDef, error) {
	return prepareStructure(c, st, st.Name, resolver)
}

// prepareStructure prepares st under name, which also prefixes the paths of
// its inline structures.
func prepareStructure(c *plugin.Context, st *model.Structure, name string, resolver TypeResolver) (TypeDef, error) {
	pc := &prepareContext{c: c, resolver: resolver}
	spec := c.Spec()

	td := TypeDef{
		Name:        resolver.FormatDefName(name),
		Path:        name,
		Description: st.Description,
		Fields:      pc.resolveFields(name, st.Fields),
	}

	ancestors := spec.Ancestors(st)
	owner := make(map[*model.Field]string)
	prev := st
	for _, anc := range ancestors {
		t, _ := prev.Extends.Target()
		td.Parents = append(td.Parents, resolver.RefType(t, c.Local(t)))
		for _, f := range anc.Fields {
			if _, seen := owner[f]; !seen {
				owner[f] = QualifiedName(t, c.Local(t))
			}
		}
		prev = anc
	}

	own := make(map[*model.Field]bool, len(st.Fields))
	for _, f := range st.Fields {
		own[f] = true
	}
	for _, f := range spec.AllFields(st) {
		if own[f] {
			continue
		}
		field := pc.resolveField(owner[f], f)
		field.From = resolver.FormatDefName(owner[f])
		td.Inherited = append(td.Inherited, field)
	}

	td.Inline = pc.inline

	ext, err := formatExtensions(c, st.Ext)
	if err != nil {
		return TypeDef{}, errors.Wrapf(err, "structure %s", name)
	}
	td.Extensions = ext
	return td, nil
}

// PrepareEnumeration builds the template input for e.
func PrepareEnumeration(c *plugin.Context, e *model.Enumeration, resolver TypeResolver) (EnumDef, error) {
	ext, err := formatExtensions(c, e.Ext)
	if err != nil {
		return EnumDef{}, errors.Wrapf(err, "enumeration %s", e.Name)
	}
	return EnumDef{
		Name:        resolver.FormatDefName(e.Name),
		Description: e.Description,
		Values:      e.Values,
		Extensions:  ext,
	}, nil
}

// TypeString resolves t with resolver. Inline structures are rendered
// through InlineType using path but not extracted.
func TypeString(c *plugin.Context, path string, t model.TypeRef, resolver TypeResolver) string {
	pc := &prepareContext{c: c, resolver: resolver}
	return pc.resolveType(path, t)
}

func formatExtensions(c *plugin.Context, ext map[string]any) (string, error) {
	if len(ext) == 0 {
		return "", nil
	}
	out, err := c.Format(ext)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

func (p *prepareContext) resolveFields(owner string, fields []*model.Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, p.resolveField(owner, f))
	}
	return out
}

func (p *prepareContext) resolveField(owner string, f *model.Field) Field {
	field := Field{
		Name:        f.Name,
		Type:        p.resolveType(owner+"."+f.Name, f.Type),
		Nullable:    f.Optional,
		Description: f.Description,
	}
	if f.Default != nil {
		field.Default = fmt.Sprint(f.Default)
	}
	p.resolver.EnrichField(&field)
	return field
}

func (p *prepareContext) resolveType(path string, t model.TypeRef) string {
	return model.Visit[string](t, typeNamer{p: p, path: path})
}

// typeNamer resolves one type reference found at path.
type typeNamer struct {
	p    *prepareContext
	path string
}

func (n typeNamer) VisitPrimitive(prim model.Primitive) string {
	return n.p.resolver.PrimitiveType(prim.Core)
}

func (n typeNamer) VisitNamed(r *model.NamedRef) string {
	return n.ref(r)
}

func (n typeNamer) VisitEnum(r *model.EnumRef) string {
	return n.ref(r)
}

func (n typeNamer) ref(r model.Reference) string {
	t, _ := r.Target()
	return n.p.resolver.RefType(t, n.p.c.Local(t))
}

func (n typeNamer) VisitList(l *model.ListOf) string {
	elem := n.p.resolveType(n.path+"[]", l.Elem)
	return n.p.resolver.ListType(elem)
}

func (n typeNamer) VisitInline(s *model.InlineStructure) string {
	at := len(n.p.inline)
	n.p.inline = append(n.p.inline, TypeDef{})
	fields := n.p.resolveFields(n.path, s.Fields)
	n.p.inline[at] = TypeDef{
		Name:        n.p.resolver.FormatDefName(n.path),
		Path:        n.path,
		Description: s.Description,
		Fields:      fields,
	}
	return n.p.resolver.InlineType(n.path)
}
