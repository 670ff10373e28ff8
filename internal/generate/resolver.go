// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import "github.com/atl-tw/xddl-sub001/internal/model"

// TypeResolver converts xDDL types to target type strings and naming conventions.
// Each generator implements this interface to control how the model maps to its output format.
type TypeResolver interface {
	// PrimitiveType maps a core type to a target type string.
	PrimitiveType(core model.CoreType) string

	// ListType wraps an element type string in a collection type.
	ListType(elemType string) string

	// RefType returns the type string for a reference to a structure or
	// enumeration. local is false when the target lives in an imported document.
	RefType(target model.Target, local bool) string

	// InlineType returns the type string for an inline structure extracted
	// under the given dotted path, e.g. "Person.contact".
	InlineType(path string) string

	// FormatDefName formats a definition name for the target format.
	FormatDefName(name string) string

	// EnrichField applies format-specific post-processing to a resolved field.
	// Called once per field after type resolution, before template execution.
	EnrichField(f *Field)
}
