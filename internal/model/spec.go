// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package model provides the xDDL entity model: specifications, structures,
// fields, type references and enumerations.
package model

import (
	"iter"

	"github.com/Masterminds/semver/v3"
)

// Meta is the document-level metadata of a Specification.
type Meta struct {
	Source      string // document identifier, usually its path
	Title       string
	Version     string
	Description string
	Comment     string
	Ext         map[string]any
}

// Specification is the root container of an xDDL document. It owns its
// definitions and the specifications it imports.
type Specification struct {
	Meta

	semver   *semver.Version
	defs     map[string]Definition
	order    []string
	imports  []*Specification
	resolved bool
}

// New creates an empty Specification. The version, when set, must be a
// valid semantic version.
func New(meta Meta) (*Specification, error) {
	s := &Specification{
		Meta: meta,
		defs: make(map[string]Definition),
	}
	if meta.Version != "" {
		v, err := semver.NewVersion(meta.Version)
		if err != nil {
			return nil, malformedf("version %q: %v", meta.Version, err)
		}
		s.semver = v
	}
	return s, nil
}

// SemVer returns the parsed version, or nil when the document has none.
func (s *Specification) SemVer() *semver.Version {
	return s.semver
}

// AddStructure appends a structure definition.
func (s *Specification) AddStructure(st *Structure) error {
	if err := validateStructure(st); err != nil {
		return err
	}
	return s.add(st)
}

// AddEnumeration appends an enumeration definition.
func (s *Specification) AddEnumeration(e *Enumeration) error {
	if err := validateEnumeration(e); err != nil {
		return err
	}
	return s.add(e)
}

// Add appends a definition of either kind.
func (s *Specification) Add(d Definition) error {
	switch d := d.(type) {
	case *Structure:
		return s.AddStructure(d)
	case *Enumeration:
		return s.AddEnumeration(d)
	default:
		return malformedf("unsupported definition %T", d)
	}
}

func (s *Specification) add(d Definition) error {
	if s.resolved {
		return malformedf("%s: cannot add %q to a resolved specification", s.label(), d.DefinitionName())
	}
	name := d.DefinitionName()
	if existing, ok := s.defs[name]; ok {
		return malformedf("%s: %q is duplicated as a top level name (already a %s)", s.label(), name, existing.Kind())
	}
	s.defs[name] = d
	s.order = append(s.order, name)
	return nil
}

// AddImport appends an imported specification. Imports are searched in the
// order they were added.
func (s *Specification) AddImport(imp *Specification) error {
	if imp == nil {
		return malformedf("%s: nil import", s.label())
	}
	if s.resolved {
		return malformedf("%s: cannot import into a resolved specification", s.label())
	}
	if imp == s || imp.Source == s.Source {
		return malformedf("%s: a specification cannot import itself", s.label())
	}
	for _, existing := range s.imports {
		if existing == imp {
			return nil
		}
		if existing.Source == imp.Source {
			return malformedf("%s: import %q is declared twice", s.label(), imp.Source)
		}
	}
	s.imports = append(s.imports, imp)
	return nil
}

func (s *Specification) label() string {
	if s.Source != "" {
		return s.Source
	}
	if s.Title != "" {
		return s.Title
	}
	return "specification"
}

// Imports returns the directly imported specifications in declaration order.
func (s *Specification) Imports() []*Specification {
	return s.imports
}

// Documents returns s followed by every transitively imported
// specification, depth first in declaration order. This is the lookup
// order used during resolution: the most local document comes first.
func (s *Specification) Documents() []*Specification {
	var out []*Specification
	seen := make(map[*Specification]struct{})
	var walk func(*Specification)
	walk = func(d *Specification) {
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
		for _, imp := range d.imports {
			walk(imp)
		}
	}
	walk(s)
	return out
}

// Lookup returns the top-level definition with the given name in this
// document only.
func (s *Specification) Lookup(name string) (Definition, bool) {
	d, ok := s.defs[name]
	return d, ok
}

// Structure returns the top-level structure with the given name.
func (s *Specification) Structure(name string) (*Structure, bool) {
	st, ok := s.defs[name].(*Structure)
	return st, ok
}

// Enumeration returns the top-level enumeration with the given name.
func (s *Specification) Enumeration(name string) (*Enumeration, bool) {
	e, ok := s.defs[name].(*Enumeration)
	return e, ok
}

// Len returns the number of top-level definitions.
func (s *Specification) Len() int {
	return len(s.order)
}

// Definitions returns all top-level definitions in declaration order.
func (s *Specification) Definitions() []Definition {
	out := make([]Definition, len(s.order))
	for i, name := range s.order {
		out[i] = s.defs[name]
	}
	return out
}

// All iterates over top-level definitions in declaration order.
func (s *Specification) All() iter.Seq2[string, Definition] {
	return func(yield func(string, Definition) bool) {
		for _, name := range s.order {
			if !yield(name, s.defs[name]) {
				return
			}
		}
	}
}

// Structures returns the top-level structures in declaration order.
func (s *Specification) Structures() []*Structure {
	var out []*Structure
	for _, name := range s.order {
		if st, ok := s.defs[name].(*Structure); ok {
			out = append(out, st)
		}
	}
	return out
}

// Enumerations returns the top-level enumerations in declaration order.
func (s *Specification) Enumerations() []*Enumeration {
	var out []*Enumeration
	for _, name := range s.order {
		if e, ok := s.defs[name].(*Enumeration); ok {
			out = append(out, e)
		}
	}
	return out
}

// TargetOf returns the Target identifying d within this document.
func (s *Specification) TargetOf(d Definition) Target {
	return Target{Document: s.Source, Kind: d.Kind(), Name: d.DefinitionName()}
}

// Document returns the specification among s.Documents() whose Source is id.
func (s *Specification) Document(id string) (*Specification, bool) {
	for _, d := range s.Documents() {
		if d.Source == id {
			return d, true
		}
	}
	return nil, false
}

// Deref returns the definition a Target identifies. The target's document
// must be s or one of its transitive imports.
func (s *Specification) Deref(t Target) (Definition, bool) {
	if t.IsZero() {
		return nil, false
	}
	doc, ok := s.Document(t.Document)
	if !ok {
		return nil, false
	}
	d, ok := doc.defs[t.Name]
	if !ok || d.Kind() != t.Kind {
		return nil, false
	}
	return d, true
}

// DerefRef resolves a bound reference to its definition.
func (s *Specification) DerefRef(r Reference) (Definition, bool) {
	t, ok := r.Target()
	if !ok {
		return nil, false
	}
	return s.Deref(t)
}

// Ancestors returns the parent chain of st, nearest parent first. The walk
// stops at an unresolved parent or at a structure already visited.
func (s *Specification) Ancestors(st *Structure) []*Structure {
	var out []*Structure
	seen := map[*Structure]struct{}{st: {}}
	for cur := st; cur.Extends != nil; {
		d, ok := s.DerefRef(cur.Extends)
		if !ok {
			break
		}
		parent, ok := d.(*Structure)
		if !ok {
			break
		}
		if _, dup := seen[parent]; dup {
			break
		}
		seen[parent] = struct{}{}
		out = append(out, parent)
		cur = parent
	}
	return out
}

// AllFields returns the fields of st including inherited ones, farthest
// ancestor first. A field redeclared by a descendant replaces the inherited
// one in place.
func (s *Specification) AllFields(st *Structure) []*Field {
	chain := s.Ancestors(st)
	var out []*Field
	index := make(map[string]int)
	for i := len(chain) - 1; i >= -1; i-- {
		cur := st
		if i >= 0 {
			cur = chain[i]
		}
		for _, f := range cur.Fields {
			if at, ok := index[f.Name]; ok {
				out[at] = f
				continue
			}
			index[f.Name] = len(out)
			out = append(out, f)
		}
	}
	return out
}

// Resolved reports whether a resolution pass completed without problems.
func (s *Specification) Resolved() bool {
	return s.resolved
}

// MarkResolved records that every reference of s has been bound. After this
// call the specification no longer accepts new definitions or imports.
func (s *Specification) MarkResolved() {
	s.resolved = true
}
