// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package gotypes

import (
	"strings"
	"unicode"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

type resolver struct{}

func (r *resolver) PrimitiveType(core model.CoreType) string {
	switch core {
	case model.String, model.Text, model.Time:
		return "string"
	case model.Date, model.DateTime:
		return "time.Time"
	case model.Integer:
		return "int32"
	case model.Long:
		return "int64"
	case model.Boolean:
		return "bool"
	case model.Float:
		return "float32"
	case model.Double:
		return "float64"
	case model.BigInteger:
		return "*big.Int"
	case model.BigDecimal:
		return "*big.Float"
	case model.Binary:
		return "[]byte"
	default:
		return "any"
	}
}

func (r *resolver) ListType(elemType string) string {
	return "[]" + elemType
}

func (r *resolver) RefType(t model.Target, local bool) string {
	return toPascalCase(generate.QualifiedName(t, local))
}

func (r *resolver) InlineType(path string) string {
	return toPascalCase(path)
}

func (r *resolver) FormatDefName(name string) string {
	return toPascalCase(name)
}

func (r *resolver) EnrichField(f *generate.Field) {
	tag := f.Name
	if f.Nullable {
		tag += ",omitempty"
		if !nilable(f.Type) {
			f.Type = "*" + f.Type
		}
	}
	f.Tag = "`json:\"" + tag + "\"`"
	f.Name = toPascalCase(f.Name)
}

// nilable reports whether the zero value of a Go type is nil.
func nilable(goType string) bool {
	return strings.HasPrefix(goType, "*") || strings.HasPrefix(goType, "[]") || goType == "any"
}

// acronyms are fully uppercased in identifiers.
var acronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"http": "HTTP",
	"api":  "API",
	"json": "JSON",
	"xml":  "XML",
	"sql":  "SQL",
	"html": "HTML",
	"ip":   "IP",
	"tcp":  "TCP",
	"udp":  "UDP",
	"tls":  "TLS",
	"ssl":  "SSL",
	"ssh":  "SSH",
	"cpu":  "CPU",
	"uri":  "URI",
	"uuid": "UUID",
}

// toPascalCase converts a snake_case, kebab-case, dotted or camelCase string
// to an exported Go identifier, uppercasing common acronyms.
func toPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	for _, part := range parts {
		if acronym, ok := acronyms[strings.ToLower(part)]; ok {
			sb.WriteString(acronym)
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}

	out := sb.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// constName returns the identifier of value within enumeration typeName.
func constName(typeName, value string) string {
	return typeName + toPascalCase(strings.ToLower(value))
}
