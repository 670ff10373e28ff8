// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// rawSpec is the on-disk form of an xDDL document.
type rawSpec struct {
	Title        string           `yaml:"title,omitempty" json:"title,omitempty"`
	Version      string           `yaml:"version,omitempty" json:"version,omitempty"`
	Description  string           `yaml:"description,omitempty" json:"description,omitempty"`
	Comment      string           `yaml:"comment,omitempty" json:"comment,omitempty"`
	Imports      []string         `yaml:"imports,omitempty" json:"imports,omitempty"`
	Includes     []string         `yaml:"includes,omitempty" json:"includes,omitempty"`
	Patches      []string         `yaml:"patches,omitempty" json:"patches,omitempty"`
	Ext          map[string]any   `yaml:"ext,omitempty" json:"ext,omitempty"`
	Structures   []rawStructure   `yaml:"structures,omitempty" json:"structures,omitempty"`
	Enumerations []rawEnumeration `yaml:"enumerations,omitempty" json:"enumerations,omitempty"`
}

type rawStructure struct {
	Name        string         `yaml:"name" json:"name"`
	Extends     string         `yaml:"extends,omitempty" json:"extends,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Comment     string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Fields      []rawField     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Ext         map[string]any `yaml:"ext,omitempty" json:"ext,omitempty"`
}

type rawField struct {
	Name        string         `yaml:"name" json:"name"`
	Type        *rawType       `yaml:"type" json:"type"`
	Required    bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Default     any            `yaml:"default,omitempty" json:"default,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Comment     string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Ext         map[string]any `yaml:"ext,omitempty" json:"ext,omitempty"`
	// Delete removes the field of the same name; only valid in patches.
	Delete bool `yaml:"delete,omitempty" json:"delete,omitempty"`
}

type rawEnumeration struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Comment     string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Values      []rawEnumValue `yaml:"values" json:"values"`
	Ext         map[string]any `yaml:"ext,omitempty" json:"ext,omitempty"`
}

// rawDefinition is the content of an included single-definition file.
type rawDefinition struct {
	Kind        string         `yaml:"kind" json:"kind"`
	Name        string         `yaml:"name" json:"name"`
	Extends     string         `yaml:"extends,omitempty" json:"extends,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Comment     string         `yaml:"comment,omitempty" json:"comment,omitempty"`
	Fields      []rawField     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Values      []rawEnumValue `yaml:"values,omitempty" json:"values,omitempty"`
	Ext         map[string]any `yaml:"ext,omitempty" json:"ext,omitempty"`
}

// rawPatch is the content of a patch file: fields merged into the
// structure called Name.
type rawPatch struct {
	Name   string     `yaml:"name" json:"name"`
	Fields []rawField `yaml:"fields" json:"fields"`
}

// rawType is a type expression. It is either a bare name (Name) or an
// object with exactly one of the typeObject keys set.
type rawType struct {
	Name string
	typeObject
}

type typeObject struct {
	Primitive string     `yaml:"primitive,omitempty" json:"primitive,omitempty"`
	Ref       string     `yaml:"ref,omitempty" json:"ref,omitempty"`
	Enum      string     `yaml:"enum,omitempty" json:"enum,omitempty"`
	List      *rawType   `yaml:"list,omitempty" json:"list,omitempty"`
	Structure *rawInline `yaml:"structure,omitempty" json:"structure,omitempty"`
}

type rawInline struct {
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []rawField `yaml:"fields" json:"fields"`
}

// rawEnumValue is written as a bare scalar unless it carries a description.
type rawEnumValue struct {
	Value       string `yaml:"value" json:"value"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// enumValueObject has the fields of rawEnumValue without its methods.
type enumValueObject rawEnumValue

func (t *rawType) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		t.Name = strings.TrimSpace(n.Value)
		return nil
	}
	return n.Decode(&t.typeObject)
}

func (t rawType) MarshalYAML() (any, error) {
	if t.Name != "" {
		return t.Name, nil
	}
	return t.typeObject, nil
}

func (t *rawType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &t.Name); err != nil {
			return err
		}
		t.Name = strings.TrimSpace(t.Name)
		return nil
	}
	return json.Unmarshal(data, &t.typeObject)
}

func (t rawType) MarshalJSON() ([]byte, error) {
	if t.Name != "" {
		return json.Marshal(t.Name)
	}
	return json.Marshal(t.typeObject)
}

func (v *rawEnumValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		v.Value = n.Value
		return nil
	}
	return n.Decode((*enumValueObject)(v))
}

func (v rawEnumValue) MarshalYAML() (any, error) {
	if v.Description == "" {
		return v.Value, nil
	}
	return enumValueObject(v), nil
}

func (v *rawEnumValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '{':
		return json.Unmarshal(data, (*enumValueObject)(v))
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &v.Value)
	default:
		// numbers and booleans are kept verbatim
		v.Value = string(data)
		return nil
	}
}

func (v rawEnumValue) MarshalJSON() ([]byte, error) {
	if v.Description == "" {
		return json.Marshal(v.Value)
	}
	return json.Marshal(enumValueObject(v))
}
