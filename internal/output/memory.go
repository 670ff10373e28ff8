// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package output

import (
	"bytes"
	"io"
	"sort"
	"sync"
)

// Memory keeps artifacts in memory. It is used by tests and dry runs.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

var _ Location = (*Memory)(nil)

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Write implements Location.
func (m *Memory) Write(name string, fn func(w io.Writer) error) (Artifact, error) {
	clean, err := CleanName(name)
	if err != nil {
		return Artifact{}, err
	}
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return Artifact{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean] = buf.Bytes()
	return Artifact{Name: clean, Size: int64(buf.Len())}, nil
}

// Get returns the content stored under name.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	return b, ok
}

// Names returns the stored artifact names in lexical order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
