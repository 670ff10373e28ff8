// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generate holds the helpers shared by generator plugins.
package generate

import (
	"path"
	"strings"
	"unicode"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ToSnakeCase converts a string to a valid snake_case identifier.
// It splits on non-alphanumeric characters, lowercases each part,
// and prefixes with underscore if the result starts with a digit.
func ToSnakeCase(s string) string {
	parts := splitWords(s)
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	result := strings.Join(parts, "_")
	if result != "" && result[0] >= '0' && result[0] <= '9' {
		result = "_" + result
	}
	return result
}

// ToPascalCase converts a string to PascalCase for type name generation.
func ToPascalCase(s string) string {
	var sb strings.Builder
	for _, part := range splitWords(s) {
		sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return sb.String()
}

// Slug returns a lowercase, hyphen-separated file name stem for spec: its
// title, or the base name of its source without extensions, or "spec".
func Slug(spec *model.Specification) string {
	if s := slugify(spec.Title); s != "" {
		return s
	}
	base := path.Base(spec.Source)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	if s := slugify(base); s != "" {
		return s
	}
	return "spec"
}

func slugify(s string) string {
	parts := splitWords(s)
	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}
	return strings.Join(parts, "-")
}

// DocumentName returns a PascalCase name for the document identified by
// source, used to qualify definitions from imported documents.
func DocumentName(source string) string {
	base := path.Base(source)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return ToPascalCase(base)
}

// QualifiedName returns t's name, prefixed with its document name unless
// the target is local.
func QualifiedName(t model.Target, local bool) string {
	if local {
		return t.Name
	}
	return DocumentName(t.Document) + t.Name
}
