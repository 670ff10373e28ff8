// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package document reads and writes xDDL documents in YAML, JSON and TOML.
package document

import (
	"bytes"
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

// ErrUnsupportedFormat indicates a file extension no Parser handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Parser decodes xDDL documents of one format.
type Parser struct {
	name   string
	decode func(data []byte, v any) error
}

var (
	// YAML parses YAML documents.
	YAML = Parser{"yaml", decodeYAML}
	// JSON parses JSON documents.
	JSON = Parser{"json", json.Unmarshal}
	// TOML parses TOML documents.
	TOML = Parser{"toml", decodeTOML}
)

// Name returns the format name.
func (p Parser) Name() string {
	return p.name
}

// ParserFor returns the parser for a file name based on its extension.
func ParserFor(name string) (Parser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	default:
		return Parser{}, errors.Wrapf(ErrUnsupportedFormat, "%s", name)
	}
}

// Parse decodes a single self-contained document read from r. The source
// becomes the document identifier. Documents with imports or includes must
// be read with a Loader, as must documents with patches.
func (p Parser) Parse(r io.Reader, source string) (*model.Specification, error) {
	raw, err := p.parseSpec(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", source)
	}
	if len(raw.Imports) > 0 || len(raw.Includes) > 0 || len(raw.Patches) > 0 {
		return nil, errors.Newf("%s: imports, includes and patches need a Loader", source)
	}
	return toModel(raw, source)
}

func (p Parser) parseSpec(r io.Reader) (*rawSpec, error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw rawSpec
	if err := p.decode(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (p Parser) parseDefinition(r io.Reader) (*rawDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw rawDefinition
	if err := p.decode(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func (p Parser) parsePatch(r io.Reader) (*rawPatch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw rawPatch
	if err := p.decode(data, &raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func decodeYAML(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty document")
	}
	return yaml.Unmarshal(data, v)
}

// decodeTOML decodes into a generic tree and hands it to the JSON decoder,
// so the scalar-or-object forms share one implementation.
func decodeTOML(data []byte, v any) error {
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return err
	}
	js, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	return json.Unmarshal(js, v)
}

func toModel(raw *rawSpec, source string) (*model.Specification, error) {
	spec, err := model.New(model.Meta{
		Source:      source,
		Title:       raw.Title,
		Version:     raw.Version,
		Description: raw.Description,
		Comment:     raw.Comment,
		Ext:         raw.Ext,
	})
	if err != nil {
		return nil, err
	}
	for _, rs := range raw.Structures {
		st, err := toStructure(rs)
		if err != nil {
			return nil, err
		}
		if err := spec.AddStructure(st); err != nil {
			return nil, err
		}
	}
	for _, re := range raw.Enumerations {
		if err := spec.AddEnumeration(toEnumeration(re)); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

func toStructure(rs rawStructure) (*model.Structure, error) {
	fields, err := toFields(rs.Name, rs.Fields)
	if err != nil {
		return nil, err
	}
	st := &model.Structure{
		Name:        rs.Name,
		Description: rs.Description,
		Comment:     rs.Comment,
		Fields:      fields,
		Ext:         rs.Ext,
	}
	if rs.Extends != "" {
		st.Extends = &model.NamedRef{Name: rs.Extends}
	}
	return st, nil
}

func toEnumeration(re rawEnumeration) *model.Enumeration {
	values := make([]model.EnumValue, len(re.Values))
	for i, v := range re.Values {
		values[i] = model.EnumValue(v)
	}
	return &model.Enumeration{
		Name:        re.Name,
		Description: re.Description,
		Comment:     re.Comment,
		Values:      values,
		Ext:         re.Ext,
	}
}

func toDefinition(rd *rawDefinition) (model.Definition, error) {
	switch strings.ToLower(rd.Kind) {
	case "structure":
		if len(rd.Values) > 0 {
			return nil, errors.Wrapf(model.ErrMalformedSpecification, "structure %q declares values", rd.Name)
		}
		return toStructure(rawStructure{
			Name:        rd.Name,
			Extends:     rd.Extends,
			Description: rd.Description,
			Comment:     rd.Comment,
			Fields:      rd.Fields,
			Ext:         rd.Ext,
		})
	case "enumeration":
		if len(rd.Fields) > 0 || rd.Extends != "" {
			return nil, errors.Wrapf(model.ErrMalformedSpecification, "enumeration %q declares fields", rd.Name)
		}
		return toEnumeration(rawEnumeration{
			Name:        rd.Name,
			Description: rd.Description,
			Comment:     rd.Comment,
			Values:      rd.Values,
			Ext:         rd.Ext,
		}), nil
	default:
		return nil, errors.Wrapf(model.ErrMalformedSpecification,
			"definition %q: kind must be structure or enumeration, got %q", rd.Name, rd.Kind)
	}
}

func toFields(owner string, raws []rawField) ([]*model.Field, error) {
	fields := make([]*model.Field, 0, len(raws))
	for _, rf := range raws {
		path := owner + "." + rf.Name
		if rf.Delete {
			return nil, errors.Wrapf(model.ErrMalformedSpecification, "%s: delete is only valid in a patch", path)
		}
		t, err := toType(path, rf.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, &model.Field{
			Name:        rf.Name,
			Type:        t,
			Optional:    !rf.Required,
			Default:     rf.Default,
			Description: rf.Description,
			Comment:     rf.Comment,
			Ext:         rf.Ext,
		})
	}
	return fields, nil
}

func toType(path string, rt *rawType) (model.TypeRef, error) {
	if rt == nil {
		return nil, errors.Wrapf(model.ErrMalformedSpecification, "%s: missing type", path)
	}
	if rt.Name != "" {
		if core, ok := model.ParseCoreType(rt.Name); ok {
			return model.Primitive{Core: core}, nil
		}
		return &model.NamedRef{Name: rt.Name}, nil
	}

	set := 0
	for _, present := range []bool{rt.Primitive != "", rt.Ref != "", rt.Enum != "", rt.List != nil, rt.Structure != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, errors.Wrapf(model.ErrMalformedSpecification,
			"%s: a type must set exactly one of primitive, ref, enum, list or structure", path)
	}

	switch {
	case rt.Primitive != "":
		core, ok := model.ParseCoreType(rt.Primitive)
		if !ok {
			return nil, errors.Wrapf(model.ErrMalformedSpecification, "%s: unknown primitive %q", path, rt.Primitive)
		}
		return model.Primitive{Core: core}, nil
	case rt.Ref != "":
		return &model.NamedRef{Name: rt.Ref}, nil
	case rt.Enum != "":
		return &model.EnumRef{Name: rt.Enum}, nil
	case rt.List != nil:
		elem, err := toType(path+"[]", rt.List)
		if err != nil {
			return nil, err
		}
		return &model.ListOf{Elem: elem}, nil
	default:
		fields, err := toFields(path, rt.Structure.Fields)
		if err != nil {
			return nil, err
		}
		return &model.InlineStructure{Description: rt.Structure.Description, Fields: fields}, nil
	}
}
