// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package resolve

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnresolvedReference indicates a reference with no matching definition.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCyclicInheritance indicates a structure whose parent chain revisits itself.
	ErrCyclicInheritance = errors.New("cyclic inheritance")
)

// UnresolvedReferenceError names the referring site and the missing symbol.
type UnresolvedReferenceError struct {
	Document string // document containing the reference
	Referrer string // e.g. "Person.address"
	Symbol   string // the name that could not be resolved
	Reason   string // set when a definition exists but has the wrong kind
}

func (e *UnresolvedReferenceError) Error() string {
	var sb strings.Builder
	if e.Document != "" {
		sb.WriteString(e.Document)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "%s: unresolved reference %q", e.Referrer, e.Symbol)
	if e.Reason != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Reason)
		sb.WriteString(")")
	}
	return sb.String()
}

// Is matches ErrUnresolvedReference.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// CyclicInheritanceError names the structures of an inheritance cycle in
// chain order. The first structure is repeated at the end.
type CyclicInheritanceError struct {
	Document string
	Cycle    []string
}

func (e *CyclicInheritanceError) Error() string {
	prefix := ""
	if e.Document != "" {
		prefix = e.Document + ": "
	}
	return prefix + "cyclic inheritance: " + strings.Join(e.Cycle, " -> ")
}

// Is matches ErrCyclicInheritance.
func (e *CyclicInheritanceError) Is(target error) bool {
	return target == ErrCyclicInheritance
}

// Error aggregates every problem found by one resolution pass.
type Error struct {
	Problems []error
}

func (e *Error) Error() string {
	if len(e.Problems) == 1 {
		return "resolution failed: " + e.Problems[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "resolution failed with %d problems:", len(e.Problems))
	for _, p := range e.Problems {
		sb.WriteString("\n  - ")
		sb.WriteString(p.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return e.Problems
}

// Unresolved returns the unresolved reference problems.
func (e *Error) Unresolved() []*UnresolvedReferenceError {
	var out []*UnresolvedReferenceError
	for _, p := range e.Problems {
		var u *UnresolvedReferenceError
		if errors.As(p, &u) {
			out = append(out, u)
		}
	}
	return out
}

// Cycles returns the cyclic inheritance problems.
func (e *Error) Cycles() []*CyclicInheritanceError {
	var out []*CyclicInheritanceError
	for _, p := range e.Problems {
		var c *CyclicInheritanceError
		if errors.As(p, &c) {
			out = append(out, c)
		}
	}
	return out
}
