// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package resolve binds the symbolic references of a specification to the
// definitions they name and checks inheritance chains for cycles.
package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

// Resolver binds references. The zero value is not usable; use New.
type Resolver struct {
	log *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve binds references with a default Resolver.
func Resolve(spec *model.Specification) error {
	return New().Resolve(spec)
}

// pass holds the state of one resolution run.
type pass struct {
	log      *zap.Logger
	done     map[*model.Specification]bool // document -> resolved without problems
	cycles   map[string]struct{}
	problems []error
}

// Resolve walks spec and every imported specification, imports first, and
// binds each reference to the first matching definition in the lookup order
// of its document: the document itself, then its imports depth first in
// declaration order. All problems are collected and returned together as an
// *Error. References that already carry a target are left untouched, so
// resolving twice is a no-op.
func (r *Resolver) Resolve(spec *model.Specification) error {
	if spec == nil {
		return errors.Wrap(model.ErrMalformedSpecification, "nil specification")
	}
	if spec.Resolved() {
		return nil
	}
	if err := checkDocumentIDs(spec); err != nil {
		return err
	}

	p := &pass{
		log:    r.log,
		done:   make(map[*model.Specification]bool),
		cycles: make(map[string]struct{}),
	}
	p.document(spec)

	if len(p.problems) > 0 {
		r.log.Debug("resolution failed",
			zap.String(logging.FieldDocument, spec.Source),
			zap.Int(logging.FieldCount, len(p.problems)))
		return &Error{Problems: p.problems}
	}
	return nil
}

// checkDocumentIDs rejects graphs where two distinct documents share an
// identifier, since targets could not tell them apart.
func checkDocumentIDs(spec *model.Specification) error {
	seen := make(map[string]*model.Specification)
	for _, doc := range spec.Documents() {
		if other, ok := seen[doc.Source]; ok && other != doc {
			return errors.Wrapf(model.ErrMalformedSpecification,
				"two imported documents share the identifier %q", doc.Source)
		}
		seen[doc.Source] = doc
	}
	return nil
}

// document resolves doc after its imports and reports whether doc and all
// of its imports are free of problems.
func (p *pass) document(doc *model.Specification) bool {
	if ok, visited := p.done[doc]; visited {
		return ok
	}
	// Provisional entry guards against import graphs that loop back.
	p.done[doc] = true

	clean := true
	for _, imp := range doc.Imports() {
		if !p.document(imp) {
			clean = false
		}
	}
	if doc.Resolved() {
		return clean
	}

	before := len(p.problems)
	bound := p.bind(doc)
	p.checkCycles(doc)
	clean = clean && len(p.problems) == before

	p.log.Debug("document resolved",
		zap.String(logging.FieldDocument, doc.Source),
		zap.Int(logging.FieldCount, bound),
		zap.Bool("clean", clean))

	p.done[doc] = clean
	if clean {
		doc.MarkResolved()
	}
	return clean
}

// bind resolves every unbound reference of doc and returns how many it bound.
func (p *pass) bind(doc *model.Specification) int {
	scopes := doc.Documents()
	bound := 0
	for site := range doc.References() {
		if _, ok := site.Ref.Target(); ok {
			continue
		}
		scope, def, found := lookup(scopes, site.Ref.Symbol())
		if !found {
			p.problems = append(p.problems, unresolved(site, scopes, ""))
			continue
		}
		if !site.Accepts(def.Kind()) {
			reason := fmt.Sprintf("%s is a %s", def.DefinitionName(), def.Kind())
			if site.Want != 0 {
				reason += ", expected a " + site.Want.String()
			}
			p.problems = append(p.problems, unresolved(site, scopes, reason))
			continue
		}
		if site.Ref.Bind(scope.TargetOf(def)) {
			bound++
		}
	}
	return bound
}

func lookup(scopes []*model.Specification, name string) (*model.Specification, model.Definition, bool) {
	for _, scope := range scopes {
		if def, ok := scope.Lookup(name); ok {
			return scope, def, true
		}
	}
	return nil, nil, false
}

func unresolved(site model.Site, scopes []*model.Specification, reason string) error {
	var err error = &UnresolvedReferenceError{
		Document: site.Document,
		Referrer: site.Referrer,
		Symbol:   site.Ref.Symbol(),
		Reason:   reason,
	}
	if reason != "" {
		return err
	}
	if near := nearMatch(scopes, site.Ref.Symbol()); near != "" {
		err = errors.WithHintf(err, "did you mean %q? names are case-sensitive", near)
	}
	return err
}

// nearMatch returns a definition name equal to symbol ignoring case.
func nearMatch(scopes []*model.Specification, symbol string) string {
	for _, scope := range scopes {
		for name := range scope.All() {
			if strings.EqualFold(name, symbol) {
				return name
			}
		}
	}
	return ""
}

// checkCycles walks the parent chain of every structure of doc with its own
// visitation set and records each distinct cycle once.
func (p *pass) checkCycles(doc *model.Specification) {
	for _, st := range doc.Structures() {
		onPath := make(map[*model.Structure]int)
		var path []string
		for cur := st; cur != nil; {
			if at, ok := onPath[cur]; ok {
				p.addCycle(doc, append(path[at:len(path):len(path)], cur.Name))
				break
			}
			onPath[cur] = len(path)
			path = append(path, cur.Name)
			cur = parentOf(doc, cur)
		}
	}
}

func parentOf(doc *model.Specification, st *model.Structure) *model.Structure {
	if st.Extends == nil {
		return nil
	}
	d, ok := doc.DerefRef(st.Extends)
	if !ok {
		return nil
	}
	parent, _ := d.(*model.Structure)
	return parent
}

func (p *pass) addCycle(doc *model.Specification, cycle []string) {
	members := append([]string(nil), cycle[:len(cycle)-1]...)
	sort.Strings(members)
	key := strings.Join(members, "\x00")
	if _, dup := p.cycles[key]; dup {
		return
	}
	p.cycles[key] = struct{}{}
	p.problems = append(p.problems, &CyclicInheritanceError{Document: doc.Source, Cycle: cycle})
}
