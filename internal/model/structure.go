// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

// Definition is a top-level entity of a Specification: a *Structure or an
// *Enumeration.
type Definition interface {
	Kind() Kind
	DefinitionName() string
	definition()
}

// Structure is a named composite type.
type Structure struct {
	Name        string
	Description string
	Comment     string
	Extends     *NamedRef // parent structure, nil if none
	Fields      []*Field
	Ext         map[string]any
}

// Field is a named member of a Structure.
type Field struct {
	Name        string
	Type        TypeRef
	Optional    bool
	Default     any
	Description string
	Comment     string
	Ext         map[string]any
}

// Enumeration is a named type restricted to an ordered set of values.
type Enumeration struct {
	Name        string
	Description string
	Comment     string
	Values      []EnumValue
	Ext         map[string]any
}

// EnumValue is a single symbolic value of an Enumeration.
type EnumValue struct {
	Value       string
	Description string
}

func (*Structure) definition()   {}
func (*Enumeration) definition() {}

// Kind returns KindStructure.
func (*Structure) Kind() Kind { return KindStructure }

// DefinitionName returns the structure name.
func (s *Structure) DefinitionName() string { return s.Name }

// Kind returns KindEnumeration.
func (*Enumeration) Kind() Kind { return KindEnumeration }

// DefinitionName returns the enumeration name.
func (e *Enumeration) DefinitionName() string { return e.Name }

// Field returns the structure's own field with the given name.
func (s *Structure) Field(name string) (*Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Has reports whether v is one of the enumeration's values.
func (e *Enumeration) Has(v string) bool {
	for _, ev := range e.Values {
		if ev.Value == v {
			return true
		}
	}
	return false
}

func validateStructure(s *Structure) error {
	if s == nil {
		return malformedf("nil structure")
	}
	if s.Name == "" {
		return malformedf("structure without a name")
	}
	if s.Extends != nil && s.Extends.Name == "" {
		return malformedf("structure %q extends an empty name", s.Name)
	}
	return validateFields(s.Name, s.Fields)
}

func validateFields(owner string, fields []*Field) error {
	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		if f == nil {
			return malformedf("%s: field %d is nil", owner, i)
		}
		if f.Name == "" {
			return malformedf("%s: field %d has no name", owner, i)
		}
		if _, dup := seen[f.Name]; dup {
			return malformedf("%s: duplicate field %q", owner, f.Name)
		}
		seen[f.Name] = struct{}{}
		if err := validateType(owner+"."+f.Name, f.Type); err != nil {
			return err
		}
	}
	return nil
}

func validateType(path string, t TypeRef) error {
	switch t := t.(type) {
	case nil:
		return malformedf("%s: missing type reference", path)
	case Primitive:
		if !t.Core.Valid() {
			return malformedf("%s: unknown core type", path)
		}
	case *Primitive:
		if t == nil || !t.Core.Valid() {
			return malformedf("%s: unknown core type", path)
		}
	case *NamedRef:
		if t == nil || t.Name == "" {
			return malformedf("%s: reference without a name", path)
		}
	case *EnumRef:
		if t == nil || t.Name == "" {
			return malformedf("%s: enumeration reference without a name", path)
		}
	case *ListOf:
		if t == nil {
			return malformedf("%s: missing type reference", path)
		}
		return validateType(path+"[]", t.Elem)
	case *InlineStructure:
		if t == nil {
			return malformedf("%s: missing type reference", path)
		}
		return validateFields(path, t.Fields)
	}
	return nil
}

func validateEnumeration(e *Enumeration) error {
	if e == nil {
		return malformedf("nil enumeration")
	}
	if e.Name == "" {
		return malformedf("enumeration without a name")
	}
	if len(e.Values) == 0 {
		return malformedf("enumeration %q has no values", e.Name)
	}
	seen := make(map[string]struct{}, len(e.Values))
	for _, v := range e.Values {
		if v.Value == "" {
			return malformedf("enumeration %q has an empty value", e.Name)
		}
		if _, dup := seen[v.Value]; dup {
			return malformedf("enumeration %q: duplicate value %q", e.Name, v.Value)
		}
		seen[v.Value] = struct{}{}
	}
	return nil
}
