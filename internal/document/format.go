// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Formatter serializes values in one document format. Model entities are
// converted with Canonical before encoding.
type Formatter interface {
	// Name returns the format identifier, e.g. "yaml".
	Name() string
	// Extension returns the file extension without a dot, e.g. "yaml".
	Extension() string
	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
}

type yamlFormatter struct{}

func (yamlFormatter) Name() string      { return "yaml" }
func (yamlFormatter) Extension() string { return "yaml" }

func (yamlFormatter) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Canonical(v)); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return buf.Bytes(), nil
}

type jsonFormatter struct{}

func (jsonFormatter) Name() string      { return "json" }
func (jsonFormatter) Extension() string { return "json" }

func (jsonFormatter) Marshal(v any) ([]byte, error) {
	out, err := json.MarshalIndent(Canonical(v), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode json")
	}
	return append(out, '\n'), nil
}

// tomlFormatter goes through the JSON form of v, since the document types
// only know how to pick between their scalar and table forms for JSON and
// YAML. TOML needs a table at the top level, so other values are wrapped
// under a "value" key.
type tomlFormatter struct{}

func (tomlFormatter) Name() string      { return "toml" }
func (tomlFormatter) Extension() string { return "toml" }

func (tomlFormatter) Marshal(v any) ([]byte, error) {
	js, err := json.Marshal(Canonical(v))
	if err != nil {
		return nil, errors.Wrap(err, "encode toml")
	}
	var tree any
	if err := json.Unmarshal(js, &tree); err != nil {
		return nil, errors.Wrap(err, "encode toml")
	}
	if _, ok := tree.(map[string]any); !ok {
		tree = map[string]any{"value": tree}
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(tree); err != nil {
		return nil, errors.Wrap(err, "encode toml")
	}
	return buf.Bytes(), nil
}

var (
	// YAMLFormat writes YAML.
	YAMLFormat Formatter = yamlFormatter{}
	// JSONFormat writes indented JSON.
	JSONFormat Formatter = jsonFormatter{}
	// TOMLFormat writes TOML.
	TOMLFormat Formatter = tomlFormatter{}
)

var formatters = map[string]Formatter{
	"yaml": YAMLFormat,
	"yml":  YAMLFormat,
	"json": JSONFormat,
	"toml": TOMLFormat,
}

// FormatterFor returns the formatter with the given name.
func FormatterFor(name string) (Formatter, error) {
	if name == "" {
		return YAMLFormat, nil
	}
	f, ok := formatters[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q (available: %v)", name, FormatNames())
	}
	return f, nil
}

// FormatNames returns the names accepted by FormatterFor.
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
