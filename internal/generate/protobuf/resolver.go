// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package protobuf

import (
	"strings"
	"unicode"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

const (
	repeated  = "repeated "
	timestamp = "google.protobuf.Timestamp"
)

type resolver struct{}

func (r *resolver) PrimitiveType(core model.CoreType) string {
	switch core {
	case model.DateTime:
		return timestamp
	case model.Integer:
		return "int32"
	case model.Long:
		return "int64"
	case model.Boolean:
		return "bool"
	case model.Float:
		return "float"
	case model.Double:
		return "double"
	case model.Binary:
		return "bytes"
	default:
		// Dates, times and arbitrary precision numbers travel as strings.
		return "string"
	}
}

func (r *resolver) ListType(elemType string) string {
	return repeated + elemType
}

func (r *resolver) RefType(t model.Target, local bool) string {
	return generate.ToPascalCase(generate.QualifiedName(t, local))
}

func (r *resolver) InlineType(path string) string {
	return generate.ToPascalCase(path)
}

func (r *resolver) FormatDefName(name string) string {
	return generate.ToPascalCase(name)
}

func (r *resolver) EnrichField(f *generate.Field) {
	f.Name = generate.ToSnakeCase(f.Name)
	if f.Nullable && !strings.HasPrefix(f.Type, repeated) {
		f.Type = "optional " + f.Type
	}
}

// upperSnake converts a PascalCase or snake_case name to UPPER_SNAKE_CASE.
func upperSnake(s string) string {
	var sb strings.Builder
	var prev rune
	for i, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			if sb.Len() > 0 && prev != '_' {
				sb.WriteByte('_')
				prev = '_'
			}
			continue
		case i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
		prev = r
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// enumValue returns the package-unique name of value within enumeration
// enumName.
func enumValue(enumName, value string) string {
	return upperSnake(enumName) + "_" + upperSnake(value)
}
