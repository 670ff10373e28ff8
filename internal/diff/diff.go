// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package diff compares the shape of two resolved specifications field by
// field.
package diff

import (
	"slices"
	"strings"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

// Element is one field reachable from a top-level structure of the root
// document, named by its dotted path (Person.address.city).
type Element struct {
	Path   string
	Type   string   // core type name, "structure" or "enumeration"
	List   bool     // the field holds a list of Type
	Values []string // allowed values when Type is "enumeration"
}

// String renders the element type the way diff output shows it.
func (e Element) String() string {
	s := e.Type
	if len(e.Values) > 0 {
		s += " [" + strings.Join(e.Values, ", ") + "]"
	}
	if e.List {
		s = "List<" + s + ">"
	}
	return s
}

func (e Element) equal(o Element) bool {
	return e.Type == o.Type && e.List == o.List && slices.Equal(e.Values, o.Values)
}

// ChangeKind classifies a Change.
type ChangeKind string

// Change kinds.
const (
	Removed ChangeKind = "removed" // only in the left specification
	Added   ChangeKind = "added"   // only in the right specification
	Changed ChangeKind = "changed" // in both with different types
)

// Change is a difference at one path. Left or Right is nil when the path
// exists on one side only.
type Change struct {
	Path  string
	Left  *Element
	Right *Element
}

// Kind returns how the path differs.
func (c Change) Kind() ChangeKind {
	switch {
	case c.Right == nil:
		return Removed
	case c.Left == nil:
		return Added
	default:
		return Changed
	}
}

// Elements lists every field reachable from the top-level structures of
// spec, inherited fields included, in declaration order. Field types are
// followed through references, lists and inline structures; a structure
// already on the current path is listed but not entered again.
func Elements(spec *model.Specification) []Element {
	w := &walker{spec: spec, open: make(map[*model.Structure]bool)}
	for _, st := range spec.Structures() {
		w.structure(st.Name, st)
	}
	return w.out
}

// Compare returns the changes from left to right ordered by path. Both
// specifications must be resolved. An empty result means they have the same
// shape; descriptions, comments and defaults are not compared.
func Compare(left, right *model.Specification) []Change {
	l := index(Elements(left))
	r := index(Elements(right))

	var changes []Change
	for path, le := range l {
		re, ok := r[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Left: le})
		case !le.equal(*re):
			changes = append(changes, Change{Path: path, Left: le, Right: re})
		}
	}
	for path, re := range r {
		if _, ok := l[path]; !ok {
			changes = append(changes, Change{Path: path, Right: re})
		}
	}
	slices.SortFunc(changes, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
	return changes
}

func index(elems []Element) map[string]*Element {
	m := make(map[string]*Element, len(elems))
	for i := range elems {
		m[elems[i].Path] = &elems[i]
	}
	return m
}

type walker struct {
	spec *model.Specification
	open map[*model.Structure]bool
	out  []Element
}

func (w *walker) structure(path string, st *model.Structure) {
	if w.open[st] {
		return
	}
	w.open[st] = true
	defer delete(w.open, st)
	w.fields(path, w.spec.AllFields(st))
}

func (w *walker) fields(path string, fields []*model.Field) {
	for _, f := range fields {
		w.field(path+"."+f.Name, f.Type)
	}
}

func (w *walker) field(path string, t model.TypeRef) {
	e := Element{Path: path}
	for {
		l, ok := t.(*model.ListOf)
		if !ok {
			break
		}
		e.List = true
		t = l.Elem
	}

	switch t := t.(type) {
	case model.Primitive:
		e.Type = t.Core.String()
		w.out = append(w.out, e)
	case *model.Primitive:
		e.Type = t.Core.String()
		w.out = append(w.out, e)
	case *model.InlineStructure:
		e.Type = model.KindStructure.String()
		w.out = append(w.out, e)
		w.fields(path, t.Fields)
	case model.Reference:
		def, ok := w.spec.DerefRef(t)
		if !ok {
			e.Type = t.Symbol()
			w.out = append(w.out, e)
			return
		}
		e.Type = def.Kind().String()
		switch def := def.(type) {
		case *model.Structure:
			w.out = append(w.out, e)
			w.structure(path, def)
		case *model.Enumeration:
			for _, v := range def.Values {
				e.Values = append(e.Values, v.Value)
			}
			w.out = append(w.out, e)
		}
	}
}
