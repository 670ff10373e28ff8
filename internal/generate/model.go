// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import "github.com/atl-tw/xddl-sub001/internal/model"

// SchemaData is the complete input passed to a generator template.
type SchemaData struct {
	Title       string
	Version     string
	Description string
	Defs        []TypeDef      // structures in declared order
	Enums       []EnumDef      // enumerations in declared order
	Extra       map[string]any // generator-specific template data
}

// TypeDef is the template input for one structure.
type TypeDef struct {
	Name        string   // formatted name
	Path        string   // dotted path for inline structures, otherwise the structure name
	Description string   // structure description, if any
	Parents     []string // resolved parent type strings, nearest first
	Fields      []Field  // own fields in declared order
	Inherited   []Field  // fields inherited from ancestors, farthest ancestor first
	Inline      []TypeDef
	Extensions  string // extensions rendered by the context formatter
}

// Field represents a single field of a structure.
type Field struct {
	Name        string // field name (may be mutated by EnrichField)
	Type        string // fully resolved target type string
	Nullable    bool   // true unless the field is required
	Default     string // default value, empty when none
	Description string // field description, if any
	Tag         string // format-specific annotation
	From        string // for inherited fields, the structure declaring it
}

// EnumDef is the template input for one enumeration.
type EnumDef struct {
	Name        string
	Description string
	Values      []model.EnumValue
	Extensions  string
}
