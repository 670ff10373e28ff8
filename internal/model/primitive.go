// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import "strings"

// CoreType is one of the primitive value types every generator must support.
type CoreType uint8

// Core types.
const (
	String     CoreType = iota + 1 // short string, 255 characters or fewer
	Text                           // unbounded text
	Date                           // day, month and year without a timezone
	Time                           // time of day
	DateTime                       // full timestamp
	Integer                        // 32 bit integer
	Long                           // 64 bit integer
	Boolean                        // true or false
	Float                          // 32 bit floating point
	Double                         // 64 bit floating point
	BigInteger                     // unbounded integer
	BigDecimal                     // unbounded decimal
	Binary                         // byte array
)

var coreTypeNames = [...]string{
	String:     "String",
	Text:       "Text",
	Date:       "Date",
	Time:       "Time",
	DateTime:   "DateTime",
	Integer:    "Integer",
	Long:       "Long",
	Boolean:    "Boolean",
	Float:      "Float",
	Double:     "Double",
	BigInteger: "BigInteger",
	BigDecimal: "BigDecimal",
	Binary:     "Binary",
}

// CoreTypes returns every core type in declaration order.
func CoreTypes() []CoreType {
	out := make([]CoreType, 0, len(coreTypeNames)-1)
	for c := String; c <= Binary; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the canonical name of the core type, e.g. "DateTime".
func (c CoreType) String() string {
	if c < String || c > Binary {
		return "Unknown"
	}
	return coreTypeNames[c]
}

// Valid reports whether c is a known core type.
func (c CoreType) Valid() bool {
	return c >= String && c <= Binary
}

// ParseCoreType parses a core type name. Matching ignores case and
// underscores, so "DATETIME", "date_time" and "DateTime" are equivalent.
func ParseCoreType(s string) (CoreType, bool) {
	key := normalizeCoreName(s)
	if key == "" {
		return 0, false
	}
	for c := String; c <= Binary; c++ {
		if normalizeCoreName(coreTypeNames[c]) == key {
			return c, true
		}
	}
	return 0, false
}

func normalizeCoreName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}
