// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package plugin

import (
	"bytes"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownPlugin indicates a plugin name the catalog does not know.
var ErrUnknownPlugin = errors.New("unknown plugin")

// ErrInvalidOptions indicates plugin options that could not be decoded.
var ErrInvalidOptions = errors.New("invalid plugin options")

// Factory builds a plugin from its raw configuration options. options is
// nil when none were configured.
type Factory func(options *yaml.Node) (Plugin, error)

// Catalog maps plugin names to factories.
type Catalog struct {
	entries map[string]catalogEntry
}

type catalogEntry struct {
	description string
	factory     Factory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]catalogEntry)}
}

// Add makes a plugin available under name.
func (c *Catalog) Add(name, description string, f Factory) error {
	if name == "" || f == nil {
		return errors.New("catalog entries need a name and a factory")
	}
	if _, exists := c.entries[name]; exists {
		return errors.Newf("plugin already in catalog: %s", name)
	}
	c.entries[name] = catalogEntry{description: description, factory: f}
	return nil
}

// New builds the named plugin with the given options.
func (c *Catalog) New(name string, options *yaml.Node) (Plugin, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPlugin, "%q (available: %v)", name, c.Names())
	}
	p, err := e.factory(options)
	if err != nil {
		return nil, errors.Wrapf(err, "plugin %s", name)
	}
	return p, nil
}

// Has reports whether name is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Describe returns the one-line description of the named plugin.
func (c *Catalog) Describe(name string) string {
	return c.entries[name].description
}

// Names returns the catalog's plugin names in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeOptions decodes options into v, rejecting unknown keys. A nil or
// empty node leaves v untouched.
func DecodeOptions(options *yaml.Node, v any) error {
	if options == nil || options.Kind == 0 {
		return nil
	}
	if options.Kind == yaml.ScalarNode && options.Tag == "!!null" {
		return nil
	}
	data, err := yaml.Marshal(options)
	if err != nil {
		return errors.Wrap(ErrInvalidOptions, err.Error())
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(ErrInvalidOptions, err.Error())
	}
	return nil
}
