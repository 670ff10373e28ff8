// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoreType(t *testing.T) {
	tests := []struct {
		in   string
		want CoreType
		ok   bool
	}{
		{"String", String, true},
		{"STRING", String, true},
		{"datetime", DateTime, true},
		{"DATE_TIME", DateTime, true},
		{"big_decimal", BigDecimal, true},
		{" Binary ", Binary, true},
		{"Address", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCoreType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoreTypes_RoundTrip(t *testing.T) {
	for _, c := range CoreTypes() {
		parsed, ok := ParseCoreType(c.String())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, parsed)
	}
	assert.Len(t, CoreTypes(), 13)
	assert.Equal(t, "Unknown", CoreType(0).String())
}

// kindNamer names every variant; it exists to prove the visitor covers them all.
type kindNamer struct{}

func (kindNamer) VisitPrimitive(Primitive) string { return "primitive" }
func (kindNamer) VisitNamed(*NamedRef) string { return "named" }
func (kindNamer) VisitInline(*InlineStructure) string { return "inline" }
func (kindNamer) VisitList(l *ListOf) string { return "list of " + Visit[string](l.Elem, kindNamer{}) }
func (kindNamer) VisitEnum(*EnumRef) string { return "enum" }

func TestVisit(t *testing.T) {
	tests := []struct {
		ref  TypeRef
		want string
	}{
		{Primitive{Core: String}, "primitive"},
		{&Primitive{Core: Long}, "primitive"},
		{&NamedRef{Name: "A"}, "named"},
		{&InlineStructure{}, "inline"},
		{&ListOf{Elem: &EnumRef{Name: "E"}}, "list of enum"},
		{&EnumRef{Name: "E"}, "enum"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Visit[string](tt.ref, kindNamer{}))
		})
	}
}

func TestTypeRef_String(t *testing.T) {
	inline := &InlineStructure{Fields: []*Field{
		{Name: "a", Type: Primitive{Core: String}},
		{Name: "b", Type: &ListOf{Elem: &NamedRef{Name: "X"}}},
	}}
	assert.Equal(t, "{a: String, b: List<X>}", inline.String())
	assert.Equal(t, "enum Color", (&EnumRef{Name: "Color"}).String())
}

func TestTarget(t *testing.T) {
	assert.True(t, Target{}.IsZero())
	assert.Equal(t, "Person", Target{Name: "Person"}.String())
	assert.Equal(t, "main#Person", Target{Document: "main", Name: "Person"}.String())
}
