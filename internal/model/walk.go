// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import "iter"

// Site is a place in a document where a definition is referred to by name.
type Site struct {
	Document string    // Source of the document containing the reference
	Referrer string    // dotted path, e.g. "Person.address" or "Person" for a parent link
	Ref      Reference // the reference itself
	Want     Kind      // required kind, 0 when either kind is acceptable
}

// Accepts reports whether a definition of kind k satisfies the site.
func (s Site) Accepts(k Kind) bool {
	if s.Want != 0 && s.Want != k {
		return false
	}
	return s.Ref.Accepts(k)
}

// References iterates over every reference site of this document (imports
// excluded) in declaration order: a structure's parent link first, then its
// fields depth first.
func (s *Specification) References() iter.Seq[Site] {
	return func(yield func(Site) bool) {
		for _, name := range s.order {
			st, ok := s.defs[name].(*Structure)
			if !ok {
				continue
			}
			if !walkStructure(s.Source, st, yield) {
				return
			}
		}
	}
}

// ReferencesOf iterates over the reference sites of st, declared in this
// document, in the same order as References.
func (s *Specification) ReferencesOf(st *Structure) iter.Seq[Site] {
	return func(yield func(Site) bool) {
		walkStructure(s.Source, st, yield)
	}
}

func walkStructure(doc string, st *Structure, yield func(Site) bool) bool {
	if st.Extends != nil {
		if !yield(Site{Document: doc, Referrer: st.Name, Ref: st.Extends, Want: KindStructure}) {
			return false
		}
	}
	return walkFields(doc, st.Name, st.Fields, yield)
}

func walkFields(doc, owner string, fields []*Field, yield func(Site) bool) bool {
	for _, f := range fields {
		if !walkType(doc, owner+"."+f.Name, f.Type, yield) {
			return false
		}
	}
	return true
}

func walkType(doc, path string, t TypeRef, yield func(Site) bool) bool {
	switch t := t.(type) {
	case *NamedRef:
		return yield(Site{Document: doc, Referrer: path, Ref: t})
	case *EnumRef:
		return yield(Site{Document: doc, Referrer: path, Ref: t, Want: KindEnumeration})
	case *ListOf:
		return walkType(doc, path+"[]", t.Elem, yield)
	case *InlineStructure:
		return walkFields(doc, path, t.Fields, yield)
	}
	return true
}

// Unbound returns the sites of s and all its imports whose reference has no
// target.
func (s *Specification) Unbound() []Site {
	var out []Site
	for _, doc := range s.Documents() {
		for site := range doc.References() {
			if _, ok := site.Ref.Target(); !ok {
				out = append(out, site)
			}
		}
	}
	return out
}
