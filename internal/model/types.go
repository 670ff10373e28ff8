// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"fmt"
	"strings"
)

// Kind identifies the kind of a top-level definition.
type Kind uint8

// Definition kinds.
const (
	KindStructure Kind = iota + 1
	KindEnumeration
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindEnumeration:
		return "enumeration"
	default:
		return "unknown"
	}
}

// Target is the resolved back-reference carried by a reference after
// resolution. It identifies a definition by document and name; use
// Specification.Deref to obtain the definition itself.
type Target struct {
	Document string
	Kind     Kind
	Name     string
}

// IsZero reports whether t is unset.
func (t Target) IsZero() bool {
	return t == Target{}
}

// String returns "document#Name", or just the name for an unnamed document.
func (t Target) String() string {
	if t.Document == "" {
		return t.Name
	}
	return t.Document + "#" + t.Name
}

// TypeRef is the type of a field. It is a closed set of variants:
// Primitive, *NamedRef, *InlineStructure, *ListOf and *EnumRef.
// Use Visit with a TypeVisitor to handle every variant.
type TypeRef interface {
	fmt.Stringer
	typeRef()
}

// Primitive is a core type.
type Primitive struct {
	Core CoreType
}

// NamedRef refers to a Structure or Enumeration by name.
type NamedRef struct {
	Name   string
	target Target
}

// InlineStructure is an anonymous structure declared in place.
type InlineStructure struct {
	Description string
	Fields      []*Field
}

// ListOf is an ordered collection of Elem.
type ListOf struct {
	Elem TypeRef
}

// EnumRef refers to an Enumeration by name.
type EnumRef struct {
	Name   string
	target Target
}

func (Primitive) typeRef()        {}
func (*NamedRef) typeRef()        {}
func (*InlineStructure) typeRef() {}
func (*ListOf) typeRef()          {}
func (*EnumRef) typeRef()         {}

func (p Primitive) String() string { return p.Core.String() }

func (r *NamedRef) String() string { return r.Name }

func (s *InlineStructure) String() string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name + ": " + typeString(f.Type)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

func (l *ListOf) String() string { return "List<" + typeString(l.Elem) + ">" }

func (r *EnumRef) String() string { return "enum " + r.Name }

func typeString(t TypeRef) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Reference is implemented by the type references that name another
// definition and gain a Target during resolution.
type Reference interface {
	// Symbol returns the name being referred to.
	Symbol() string
	// Target returns the resolved back-reference, if any.
	Target() (Target, bool)
	// Bind sets the back-reference. It returns false and leaves the
	// reference untouched if a target is already bound.
	Bind(t Target) bool
	// Accepts reports whether a definition of kind k may satisfy the reference.
	Accepts(k Kind) bool
}

var (
	_ Reference = (*NamedRef)(nil)
	_ Reference = (*EnumRef)(nil)
)

// Symbol returns the referenced name.
func (r *NamedRef) Symbol() string { return r.Name }

// Target returns the resolved back-reference.
func (r *NamedRef) Target() (Target, bool) { return r.target, !r.target.IsZero() }

// Bind sets the back-reference unless one is already present.
func (r *NamedRef) Bind(t Target) bool {
	if !r.target.IsZero() || t.IsZero() {
		return false
	}
	r.target = t
	return true
}

// Accepts reports true for both structures and enumerations.
func (r *NamedRef) Accepts(k Kind) bool {
	return k == KindStructure || k == KindEnumeration
}

// Symbol returns the referenced enumeration name.
func (r *EnumRef) Symbol() string { return r.Name }

// Target returns the resolved back-reference.
func (r *EnumRef) Target() (Target, bool) { return r.target, !r.target.IsZero() }

// Bind sets the back-reference unless one is already present.
func (r *EnumRef) Bind(t Target) bool {
	if !r.target.IsZero() || t.IsZero() {
		return false
	}
	r.target = t
	return true
}

// Accepts reports true only for enumerations.
func (r *EnumRef) Accepts(k Kind) bool { return k == KindEnumeration }

// TypeVisitor handles every TypeRef variant. Implementations are checked by
// the compiler, so a new variant cannot be silently ignored.
type TypeVisitor[R any] interface {
	VisitPrimitive(p Primitive) R
	VisitNamed(r *NamedRef) R
	VisitInline(s *InlineStructure) R
	VisitList(l *ListOf) R
	VisitEnum(r *EnumRef) R
}

// Visit dispatches t to the matching method of v.
func Visit[R any](t TypeRef, v TypeVisitor[R]) R {
	switch t := t.(type) {
	case Primitive:
		return v.VisitPrimitive(t)
	case *Primitive:
		return v.VisitPrimitive(*t)
	case *NamedRef:
		return v.VisitNamed(t)
	case *InlineStructure:
		return v.VisitInline(t)
	case *ListOf:
		return v.VisitList(t)
	case *EnumRef:
		return v.VisitEnum(t)
	default:
		panic(fmt.Sprintf("model: unknown type reference %T", t))
	}
}
