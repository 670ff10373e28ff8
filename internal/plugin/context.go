// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package plugin

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

// ErrUnresolvedModel indicates an attempt to build a Context from a
// specification that has not been fully resolved.
var ErrUnresolvedModel = errors.New("unresolved model")

// maxListedSites bounds the references named in an ErrUnresolvedModel message.
const maxListedSites = 5

// Context is the read-only view handed to plugins: a resolved specification
// and the formatter used to render model fragments in canonical form.
type Context struct {
	spec      *model.Specification
	formatter document.Formatter
}

// NewContext bundles a formatter and a resolved specification. It fails with
// ErrUnresolvedModel unless spec and every document it imports were
// resolved and every reference in the graph carries a target.
func NewContext(formatter document.Formatter, spec *model.Specification) (*Context, error) {
	if formatter == nil {
		return nil, errors.New("a formatter is required")
	}
	if spec == nil {
		return nil, errors.Wrap(ErrUnresolvedModel, "nil specification")
	}
	for _, doc := range spec.Documents() {
		if !doc.Resolved() {
			return nil, errors.Wrapf(ErrUnresolvedModel, "%s has not been resolved", label(doc))
		}
	}
	if unbound := spec.Unbound(); len(unbound) > 0 {
		names := make([]string, 0, maxListedSites)
		for i, site := range unbound {
			if i == maxListedSites {
				names = append(names, "...")
				break
			}
			names = append(names, site.Referrer+" -> "+site.Ref.Symbol())
		}
		return nil, errors.Wrapf(ErrUnresolvedModel, "%d references without a target: %s",
			len(unbound), strings.Join(names, ", "))
	}
	return &Context{spec: spec, formatter: formatter}, nil
}

func label(doc *model.Specification) string {
	if doc.Source != "" {
		return doc.Source
	}
	return "specification"
}

// Spec returns the resolved specification. Plugins must not modify it.
func (c *Context) Spec() *model.Specification {
	return c.spec
}

// Formatter returns the shared formatter.
func (c *Context) Formatter() document.Formatter {
	return c.formatter
}

// Format renders v, typically a model entity, with the shared formatter.
func (c *Context) Format(v any) (string, error) {
	b, err := c.formatter.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Deref returns the definition a resolved reference points at.
func (c *Context) Deref(r model.Reference) (model.Definition, bool) {
	return c.spec.DerefRef(r)
}

// Lookup finds a definition by name using the resolution order: the root
// document first, then its imports.
func (c *Context) Lookup(name string) (model.Definition, *model.Specification, bool) {
	for _, doc := range c.spec.Documents() {
		if d, ok := doc.Lookup(name); ok {
			return d, doc, true
		}
	}
	return nil, nil, false
}

// Local reports whether t identifies a definition of the root document.
func (c *Context) Local(t model.Target) bool {
	return t.Document == c.spec.Source
}
