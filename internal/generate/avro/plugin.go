// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package avro generates Apache Avro schemas from a specification.
package avro

import (
	"encoding/json"
	"io"
	"regexp"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/output"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// Name is the catalog name of the plugin.
const Name = "avro"

var (
	// ErrInvalidName indicates a field name or enumeration value Avro does
	// not accept.
	ErrInvalidName = errors.New("invalid Avro name")

	// ErrUnknownRoot indicates a root option naming no structure.
	ErrUnknownRoot = errors.New("unknown root structure")
)

var (
	namePattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	namespacePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Options configures the plugin.
type Options struct {
	// Namespace of the top-level named types; defaults to the specification
	// slug.
	Namespace string `yaml:"namespace"`
	// Root makes the schema a single record for the named structure instead
	// of a union of every definition.
	Root string `yaml:"root"`
}

// Plugin writes one .avsc schema document.
type Plugin struct {
	opts Options
}

// New returns a Plugin with the given options.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts}
}

// Factory builds the plugin from raw catalog options.
func Factory(options *yaml.Node) (plugin.Plugin, error) {
	var opts Options
	if err := plugin.DecodeOptions(options, &opts); err != nil {
		return nil, err
	}
	if opts.Namespace != "" && !namespacePattern.MatchString(opts.Namespace) {
		return nil, errors.Wrapf(plugin.ErrInvalidOptions, "namespace %q", opts.Namespace)
	}
	return New(opts), nil
}

// Name returns the plugin name.
func (p *Plugin) Name() string {
	return Name
}

// avroRecord represents an Avro record schema.
type avroRecord struct {
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Namespace string      `json:"namespace,omitempty"`
	Doc       string      `json:"doc,omitempty"`
	Fields    []avroField `json:"fields"`
}

// avroField represents a field within an Avro record.
type avroField struct {
	Name    string          `json:"name"`
	Type    any             `json:"type"`
	Doc     string          `json:"doc,omitempty"`
	Default json.RawMessage `json:"default,omitempty"`
}

// avroEnum represents an Avro enum schema.
type avroEnum struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	Doc       string   `json:"doc,omitempty"`
	Symbols   []string `json:"symbols"`
}

// avroArray represents an Avro array type.
type avroArray struct {
	Type  string `json:"type"`
	Items any    `json:"items"`
}

// avroLogicalType represents an Avro logical type.
type avroLogicalType struct {
	Type        string `json:"type"`
	LogicalType string `json:"logicalType"`
}

var nullDefault = json.RawMessage("null")

// Generate writes <slug>.avsc.
func (p *Plugin) Generate(c *plugin.Context, out output.Location) ([]output.Artifact, error) {
	schema, err := p.Schema(c)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal Avro schema")
	}

	name := generate.Slug(c.Spec()) + ".avsc"
	a, err := out.Write(name, func(w io.Writer) error {
		_, err := w.Write(append(data, '\n'))
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", name)
	}
	return []output.Artifact{a}, nil
}

// Schema returns the Avro schema for c: a record when Root is set,
// otherwise a union listing every definition of the root document and every
// imported one they reach. Named types are declared inline at first use and
// referred to by name afterwards.
func (p *Plugin) Schema(c *plugin.Context) (any, error) {
	spec := c.Spec()
	ns := p.opts.Namespace
	if ns == "" {
		ns = generate.ToSnakeCase(generate.Slug(spec))
	}
	b := &builder{c: c, defined: make(map[string]bool)}

	if p.opts.Root != "" {
		st, ok := spec.Structure(p.opts.Root)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownRoot, "%q", p.opts.Root)
		}
		return b.named(spec.TargetOf(st), ns)
	}

	defs, err := generate.Closure(c)
	if err != nil {
		return nil, err
	}
	union := make([]any, 0, len(defs))
	for _, r := range defs {
		if b.defined[b.name(r.Target)] {
			continue
		}
		s, err := b.named(r.Target, ns)
		if err != nil {
			return nil, err
		}
		union = append(union, s)
	}
	return union, nil
}

type builder struct {
	c       *plugin.Context
	defined map[string]bool
}

func (b *builder) name(t model.Target) string {
	return generate.ToPascalCase(generate.QualifiedName(t, b.c.Local(t)))
}

// named returns the full declaration of t the first time and its name
// afterwards.
func (b *builder) named(t model.Target, namespace string) (any, error) {
	name := b.name(t)
	if b.defined[name] {
		return name, nil
	}
	b.defined[name] = true

	spec := b.c.Spec()
	def, ok := spec.Deref(t)
	if !ok {
		return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "no definition for %s", t)
	}
	switch def := def.(type) {
	case *model.Structure:
		rec, err := b.record(name, def.Description, spec.AllFields(def))
		if err != nil {
			return nil, err
		}
		rec.Namespace = namespace
		return rec, nil
	case *model.Enumeration:
		symbols := make([]string, len(def.Values))
		for i, v := range def.Values {
			if !namePattern.MatchString(v.Value) {
				return nil, errors.Wrapf(ErrInvalidName, "enumeration %s value %q", def.Name, v.Value)
			}
			symbols[i] = v.Value
		}
		return &avroEnum{Type: "enum", Name: name, Namespace: namespace, Doc: def.Description, Symbols: symbols}, nil
	default:
		return nil, errors.Newf("unsupported definition %T", def)
	}
}

// record builds a record named name. Inherited fields are flattened in.
func (b *builder) record(name, doc string, fields []*model.Field) (*avroRecord, error) {
	rec := &avroRecord{Type: "record", Name: name, Doc: doc, Fields: make([]avroField, 0, len(fields))}
	for _, f := range fields {
		if !namePattern.MatchString(f.Name) {
			return nil, errors.Wrapf(ErrInvalidName, "field %s.%s", name, f.Name)
		}
		typ, err := b.typeOf(name+"."+f.Name, f.Type)
		if err != nil {
			return nil, err
		}
		field := avroField{Name: f.Name, Type: typ, Doc: f.Description}
		switch {
		case f.Optional:
			field.Type = []any{"null", typ}
			field.Default = nullDefault
		case f.Default != nil:
			raw, err := json.Marshal(f.Default)
			if err != nil {
				return nil, errors.Wrapf(err, "default of %s.%s", name, f.Name)
			}
			field.Default = raw
		}
		rec.Fields = append(rec.Fields, field)
	}
	return rec, nil
}

func (b *builder) typeOf(path string, t model.TypeRef) (any, error) {
	switch t := t.(type) {
	case model.Primitive:
		return primitive(t.Core), nil
	case *model.Primitive:
		return primitive(t.Core), nil
	case *model.NamedRef:
		return b.ref(t)
	case *model.EnumRef:
		return b.ref(t)
	case *model.ListOf:
		items, err := b.typeOf(path, t.Elem)
		if err != nil {
			return nil, err
		}
		return avroArray{Type: "array", Items: items}, nil
	case *model.InlineStructure:
		name := generate.ToPascalCase(path)
		b.defined[name] = true
		return b.record(name, t.Description, t.Fields)
	default:
		return nil, errors.Newf("unsupported type %T at %s", t, path)
	}
}

func (b *builder) ref(r model.Reference) (any, error) {
	t, ok := r.Target()
	if !ok {
		return nil, errors.Wrapf(plugin.ErrUnresolvedModel, "unbound reference %s", r.Symbol())
	}
	return b.named(t, "")
}

func primitive(core model.CoreType) any {
	switch core {
	case model.Date:
		return avroLogicalType{Type: "int", LogicalType: "date"}
	case model.Time:
		return avroLogicalType{Type: "int", LogicalType: "time-millis"}
	case model.DateTime:
		return avroLogicalType{Type: "long", LogicalType: "timestamp-millis"}
	case model.Integer:
		return "int"
	case model.Long:
		return "long"
	case model.Boolean:
		return "boolean"
	case model.Float:
		return "float"
	case model.Double:
		return "double"
	case model.Binary:
		return "bytes"
	default:
		// Text and arbitrary precision numbers travel as strings.
		return "string"
	}
}
