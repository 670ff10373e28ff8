// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package markdown generates one Markdown page per definition of a
// specification.
package markdown

import (
	"strings"

	"github.com/atl-tw/xddl-sub001/internal/generate"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

type resolver struct{}

func (r *resolver) PrimitiveType(core model.CoreType) string {
	return core.String()
}

func (r *resolver) ListType(elemType string) string {
	return "list(" + elemType + ")"
}

// RefType links local definitions to their page. Imported definitions have
// no page of their own and are named with their document.
func (r *resolver) RefType(t model.Target, local bool) string {
	if local {
		return "[" + t.Name + "](" + t.Name + ".md)"
	}
	return t.Name + " (`" + t.Document + "`)"
}

func (r *resolver) InlineType(path string) string {
	return "[" + path + "](#" + anchor(path) + ")"
}

func (r *resolver) FormatDefName(name string) string {
	return name
}

func (r *resolver) EnrichField(f *generate.Field) {
	f.Description = cell(f.Description)
	f.Default = strings.ReplaceAll(f.Default, "`", "'")
}

// anchor returns the heading id GitHub-flavored Markdown assigns to a
// heading with the given text.
func anchor(heading string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r == ' ' || r == '-':
			sb.WriteRune('-')
		case r == '_' || ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// cell makes s safe for a single table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
