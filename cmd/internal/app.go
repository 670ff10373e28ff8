// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/atl-tw/xddl-sub001/internal/commands"
	"github.com/atl-tw/xddl-sub001/internal/generate/avro"
	"github.com/atl-tw/xddl-sub001/internal/generate/gotypes"
	"github.com/atl-tw/xddl-sub001/internal/generate/graphviz"
	"github.com/atl-tw/xddl-sub001/internal/generate/jsonschema"
	"github.com/atl-tw/xddl-sub001/internal/generate/markdown"
	"github.com/atl-tw/xddl-sub001/internal/generate/protobuf"
	"github.com/atl-tw/xddl-sub001/internal/generate/pydantic"
	"github.com/atl-tw/xddl-sub001/internal/generate/sparksql"
	"github.com/atl-tw/xddl-sub001/internal/generate/unify"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
)

// NewCatalog returns the catalog of every plugin shipped with the CLI.
func NewCatalog() *plugin.Catalog {
	catalog := plugin.NewCatalog()
	for _, e := range []struct {
		name, description string
		factory          plugin.Factory
	}{
		{markdown.Name, "Markdown reference pages, one per definition", markdown.Factory},
		{jsonschema.Name, "JSON Schema (draft 2020-12) of the whole specification", jsonschema.Factory},
		{graphviz.Name, "Graphviz DOT diagram of structures and their relations", graphviz.Factory},
		{gotypes.Name, "Go struct and enumeration types", gotypes.Factory},
		{protobuf.Name, "Protocol Buffers (proto3) messages and enums", protobuf.Factory},
		{pydantic.Name, "Python Pydantic models and enums", pydantic.Factory},
		{sparksql.Name, "Spark SQL CREATE TABLE statements", sparksql.Factory},
		{avro.Name, "Apache Avro schema of every record and enum", avro.Factory},
		{unify.Name, "Single self-contained document merging every import", unify.Factory},
	} {
		if err := catalog.Add(e.name, e.description, e.factory); err != nil {
			panic(err)
		}
	}
	return catalog
}

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, env lookup).
func Run(ctx context.Context, getenv func(string) string, args []string) error {
	rootCmd := commands.NewRootCmd(NewCatalog(), getenv)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
