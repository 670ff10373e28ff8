// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package model

import "github.com/cockroachdb/errors"

// ErrMalformedSpecification indicates a structural defect in a specification:
// duplicate names, missing names or types, invalid versions or imports.
var ErrMalformedSpecification = errors.New("malformed specification")

func malformedf(format string, args ...any) error {
	return errors.Wrapf(ErrMalformedSpecification, format, args...)
}
