// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package pydantic

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

type resolver struct{}

func (r *resolver) PrimitiveType(core model.CoreType) string {
	switch core {
	case model.Date:
		return "datetime.date"
	case model.Time:
		return "datetime.time"
	case model.DateTime:
		return "datetime.datetime"
	case model.Integer, model.Long, model.BigInteger:
		return "int"
	case model.Boolean:
		return "bool"
	case model.Float, model.Double:
		return "float"
	case model.BigDecimal:
		return "Decimal"
	case model.Binary:
		return "bytes"
	default:
		return "str"
	}
}

func (r *resolver) ListType(elemType string) string {
	return "list[" + elemType + "]"
}

func (r *resolver) RefType(t model.Target, local bool) string {
	return className(generate.QualifiedName(t, local))
}

func (r *resolver) InlineType(path string) string {
	return className(path)
}

func (r *resolver) FormatDefName(name string) string {
	return className(name)
}

func (r *resolver) EnrichField(f *generate.Field) {
	if f.Nullable {
		f.Type = "Optional[" + f.Type + "]"
	}

	attr := attributeName(f.Name)
	if attr == f.Name {
		if f.Nullable {
			f.Tag = " = None"
		}
		return
	}

	alias := "alias=" + strconv.Quote(f.Name)
	if f.Nullable {
		f.Tag = " = Field(default=None, " + alias + ")"
	} else {
		f.Tag = " = Field(" + alias + ")"
	}
	f.Name = attr
}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// attributeName returns a Python attribute name for a field. Names that are
// not identifiers, or are keywords, are rewritten and kept as an alias.
func attributeName(name string) string {
	if isIdentifier(name) && !keywords[name] {
		return name
	}
	attr := name
	if !isIdentifier(attr) {
		attr = generate.ToSnakeCase(name)
	}
	if attr == "" {
		attr = "field"
	}
	if keywords[attr] {
		attr += "_"
	}
	return attr
}

func className(name string) string {
	out := generate.ToPascalCase(name)
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// memberName returns the enum member name of value.
func memberName(value string) string {
	var sb strings.Builder
	prevLower := false
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && prevLower {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToUpper(r))
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		default:
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "_") {
				sb.WriteByte('_')
			}
			prevLower = false
		}
	}
	out := strings.Trim(sb.String(), "_")
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "V_" + out
	}
	return out
}
