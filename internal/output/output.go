// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package output provides the locations generator plugins write artifacts to.
package output

import (
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrPathInvalid indicates an artifact name that is empty, absolute or
// escapes the location root.
var ErrPathInvalid = errors.New("invalid artifact path")

// Artifact describes one emitted output.
type Artifact struct {
	Name string // slash-separated path relative to the location root
	Size int64  // bytes written
}

// Location is a destination for artifacts. Implementations are safe for
// concurrent use by multiple plugins.
type Location interface {
	// Write stores the bytes fn writes under name. The artifact becomes
	// visible only if fn returns nil; on error nothing is left behind.
	Write(name string, fn func(w io.Writer) error) (Artifact, error)
}

// CleanName validates an artifact name and returns its canonical form.
func CleanName(name string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.ContainsRune(name, '\\') {
		return "", errors.Wrapf(ErrPathInvalid, "%q", name)
	}
	if strings.HasPrefix(name, "/") || hasVolume(name) {
		return "", errors.Wrapf(ErrPathInvalid, "%q is absolute", name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Wrapf(ErrPathInvalid, "%q escapes the output location", name)
	}
	return clean, nil
}

func hasVolume(name string) bool {
	return len(name) >= 2 && name[1] == ':' &&
		((name[0] >= 'a' && name[0] <= 'z') || (name[0] >= 'A' && name[0] <= 'Z'))
}

// countingWriter counts the bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
