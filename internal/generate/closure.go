// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"github.com/cockroachdb/errors"

	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Reachable is a definition a self-contained output must declare.
type Reachable struct {
	Target model.Target
	Def    model.Definition
	Doc    *model.Specification // declaring document
	Local  bool                 // declared by the root document
}

// Name returns the definition's name, qualified by its document unless local.
func (r Reachable) Name() string {
	return QualifiedName(r.Target, r.Local)
}

// Closure returns every definition of the root document in declared order,
// followed by the imported definitions they reach, breadth first.
// Imported definitions nothing refers to are left out.
func Closure(c *plugin.Context) ([]Reachable, error) {
	spec := c.Spec()
	seen := make(map[model.Target]bool)
	var queue []model.Target
	enqueue := func(t model.Target) {
		if !seen[t] {
			seen[t] = true
			queue = append(queue, t)
		}
	}
	for _, def := range spec.Definitions() {
		enqueue(spec.TargetOf(def))
	}

	out := make([]Reachable, 0, len(queue))
	for i := 0; i < len(queue); i++ {
		t := queue[i]
		def, ok := spec.Deref(t)
		if !ok {
			return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "no definition for %s", t)
		}
		doc, _ := spec.Document(t.Document)
		out = append(out, Reachable{Target: t, Def: def, Doc: doc, Local: c.Local(t)})

		st, ok := def.(*model.Structure)
		if !ok {
			continue
		}
		for site := range doc.ReferencesOf(st) {
			next, ok := site.Ref.Target()
			if !ok {
				return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "%s refers to unbound %s", site.Referrer, site.Ref.Symbol())
			}
			enqueue(next)
		}
	}
	return out, nil
}

// PrepareClosure is Prepare over Closure(c): imported definitions are
// included under their qualified names and inline structures are declared
// once each.
func PrepareClosure(c *plugin.Context, resolver TypeResolver) (*SchemaData, error) {
	defs, err := Closure(c)
	if err != nil {
		return nil, err
	}
	spec := c.Spec()
	data := &SchemaData{
		Title:       spec.Title,
		Version:     spec.Version,
		Description: spec.Description,
		Extra:       make(map[string]any),
	}
	for _, r := range defs {
		switch def := r.Def.(type) {
		case *model.Structure:
			td, err := prepareStructure(c, def, r.Name(), resolver)
			if err != nil {
				return nil, err
			}
			data.Defs = append(data.Defs, td)
		case *model.Enumeration:
			ed, err := PrepareEnumeration(c, def, resolver)
			if err != nil {
				return nil, err
			}
			ed.Name = resolver.FormatDefName(r.Name())
			data.Enums = append(data.Enums, ed)
		}
	}
	dedupeInline(data.Defs)
	return data, nil
}

// dedupeInline drops inline structures already declared by an earlier
// structure. A structure extracts the inline types of its inherited fields
// too, under the ancestor's path.
func dedupeInline(defs []TypeDef) {
	seen := make(map[string]bool)
	for i := range defs {
		kept := defs[i].Inline[:0]
		for _, in := range defs[i].Inline {
			if seen[in.Name] {
				continue
			}
			seen[in.Name] = true
			kept = append(kept, in)
		}
		defs[i].Inline = kept
	}
}
