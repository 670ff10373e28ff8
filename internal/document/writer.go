// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"github.com/atl-tw/xddl-sub001/internal/model"
)

// Canonical converts model entities to their document form so they can be
// serialized: *model.Specification, model.Definition, *model.Field,
// model.TypeRef, model.EnumValue and slices of fields or definitions.
// Other values are returned unchanged. Imports are written as the
// identifiers of the imported documents.
func Canonical(v any) any {
	switch v := v.(type) {
	case *model.Specification:
		return fromSpec(v)
	case *model.Structure:
		return fromDefinition(v)
	case *model.Enumeration:
		return fromDefinition(v)
	case []model.Definition:
		out := make([]*rawDefinition, len(v))
		for i, d := range v {
			out[i] = fromDefinition(d)
		}
		return out
	case *model.Field:
		return fromField(v)
	case []*model.Field:
		return fromFields(v)
	case model.TypeRef:
		return fromType(v)
	case model.EnumValue:
		return rawEnumValue(v)
	default:
		return v
	}
}

func fromSpec(spec *model.Specification) *rawSpec {
	raw := &rawSpec{
		Title:       spec.Title,
		Version:     spec.Version,
		Description: spec.Description,
		Comment:     spec.Comment,
		Ext:         spec.Ext,
	}
	for _, imp := range spec.Imports() {
		raw.Imports = append(raw.Imports, imp.Source)
	}
	for _, st := range spec.Structures() {
		raw.Structures = append(raw.Structures, fromStructure(st))
	}
	for _, e := range spec.Enumerations() {
		raw.Enumerations = append(raw.Enumerations, fromEnumeration(e))
	}
	return raw
}

func fromDefinition(d model.Definition) *rawDefinition {
	switch d := d.(type) {
	case *model.Structure:
		rs := fromStructure(d)
		return &rawDefinition{
			Kind:        d.Kind().String(),
			Name:        rs.Name,
			Extends:     rs.Extends,
			Description: rs.Description,
			Comment:     rs.Comment,
			Fields:      rs.Fields,
			Ext:         rs.Ext,
		}
	case *model.Enumeration:
		re := fromEnumeration(d)
		return &rawDefinition{
			Kind:        d.Kind().String(),
			Name:        re.Name,
			Description: re.Description,
			Comment:     re.Comment,
			Values:      re.Values,
			Ext:         re.Ext,
		}
	default:
		return nil
	}
}

func fromStructure(st *model.Structure) rawStructure {
	rs := rawStructure{
		Name:        st.Name,
		Description: st.Description,
		Comment:     st.Comment,
		Fields:      fromFields(st.Fields),
		Ext:         st.Ext,
	}
	if st.Extends != nil {
		rs.Extends = st.Extends.Name
	}
	return rs
}

func fromEnumeration(e *model.Enumeration) rawEnumeration {
	values := make([]rawEnumValue, len(e.Values))
	for i, v := range e.Values {
		values[i] = rawEnumValue(v)
	}
	return rawEnumeration{
		Name:        e.Name,
		Description: e.Description,
		Comment:     e.Comment,
		Values:      values,
		Ext:         e.Ext,
	}
}

func fromFields(fields []*model.Field) []rawField {
	out := make([]rawField, len(fields))
	for i, f := range fields {
		out[i] = *fromField(f)
	}
	return out
}

func fromField(f *model.Field) *rawField {
	return &rawField{
		Name:        f.Name,
		Type:        fromType(f.Type),
		Required:    !f.Optional,
		Default:     f.Default,
		Description: f.Description,
		Comment:     f.Comment,
		Ext:         f.Ext,
	}
}

func fromType(t model.TypeRef) *rawType {
	if t == nil {
		return nil
	}
	return model.Visit[*rawType](t, rawTypeBuilder{})
}

// rawTypeBuilder writes each type in its shortest unambiguous form.
type rawTypeBuilder struct{}

func (rawTypeBuilder) VisitPrimitive(p model.Primitive) *rawType {
	return &rawType{Name: p.Core.String()}
}

func (rawTypeBuilder) VisitNamed(r *model.NamedRef) *rawType {
	if _, isCore := model.ParseCoreType(r.Name); isCore {
		return &rawType{typeObject: typeObject{Ref: r.Name}}
	}
	return &rawType{Name: r.Name}
}

func (rawTypeBuilder) VisitInline(s *model.InlineStructure) *rawType {
	return &rawType{typeObject: typeObject{Structure: &rawInline{
		Description: s.Description,
		Fields:      fromFields(s.Fields),
	}}}
}

func (rawTypeBuilder) VisitList(l *model.ListOf) *rawType {
	return &rawType{typeObject: typeObject{List: fromType(l.Elem)}}
}

func (rawTypeBuilder) VisitEnum(r *model.EnumRef) *rawType {
	return &rawType{typeObject: typeObject{Enum: r.Name}}
}
