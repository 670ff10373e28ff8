// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/atl-tw/xddl-sub001/internal/config"
	"github.com/atl-tw/xddl-sub001/internal/document"
	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/model"
	"github.com/atl-tw/xddl-sub001/internal/plugin"
	"github.com/atl-tw/xddl-sub001/internal/resolve"
)

var (
	// ErrNotInitialized indicates no xddl.yaml was found in the current directory.
	ErrNotInitialized = errors.New("not in an xddl project (xddl.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSpecNotFound indicates the spec file referenced by config doesn't exist.
	ErrSpecNotFound = errors.New("spec file not found")

	// ErrInvalidSpec indicates the spec could not be parsed or resolved.
	ErrInvalidSpec = errors.New("invalid xDDL specification")
)

// ConfigFileName is the name of the xddl configuration file.
const ConfigFileName = config.FileName

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the project configuration and the resolved specification.
type Context struct {
	// Dir is the project directory holding xddl.yaml.
	Dir string

	// Config is the validated project configuration.
	Config *config.Config

	// Spec is the resolved root specification.
	Spec *model.Specification

	// Plugins is the view handed to generator plugins.
	Plugins *plugin.Context
}

// Load loads the project context from the current working directory and
// returns a new context.Context with the xddl Context stored in it.
func Load(ctx context.Context) (context.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	sc, err := LoadDir(ctx, cwd)
	if err != nil {
		return nil, err
	}
	return WithContext(ctx, sc), nil
}

// LoadDir loads the project rooted at dir.
func LoadDir(ctx context.Context, dir string) (*Context, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, ErrNotInitialized
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, validateErr)
	}

	sc := &Context{Dir: dir, Config: cfg}
	spec, pc, err := LoadSpec(ctx, sc.SpecPath(), cfg.Format)
	if err != nil {
		return nil, err
	}
	sc.Spec, sc.Plugins = spec, pc
	return sc, nil
}

// LoadFile loads a standalone document without a project configuration.
// Defaults apply to every setting and relative paths resolve against dir.
func LoadFile(ctx context.Context, dir, specPath string) (*Context, error) {
	sc := &Context{Dir: dir, Config: config.New(specPath)}
	spec, pc, err := LoadSpec(ctx, sc.SpecPath(), sc.Config.Format)
	if err != nil {
		return nil, err
	}
	sc.Spec, sc.Plugins = spec, pc
	return sc, nil
}

// WithContext returns a copy of ctx carrying sc.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// LoadSpec parses the document at specPath and everything it imports,
// resolves it and wraps it in a plugin context using the named formatter.
// Imports may reach anywhere below the document's parent directory.
func LoadSpec(ctx context.Context, specPath, format string) (*model.Specification, *plugin.Context, error) {
	log := logging.FromContext(ctx)

	info, err := os.Stat(specPath)
	if err != nil || info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrSpecNotFound, specPath)
	}
	if !document.IsDocument(specPath) {
		return nil, nil, fmt.Errorf("%w: %s is not a .yaml, .yml, .json or .toml document", ErrInvalidSpec, specPath)
	}
	formatter, err := document.FormatterFor(format)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	root, name := splitRoot(specPath)
	log.Debug("loading specification", zap.String(logging.FieldPath, specPath), zap.String("root", root))

	spec, err := document.NewLoader(os.DirFS(root), document.WithLogger(log)).Load(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %w", ErrSpecNotFound, err)
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if err := resolve.New(resolve.WithLogger(log)).Resolve(spec); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	pc, err := plugin.NewContext(formatter, spec)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	return spec, pc, nil
}

// splitRoot returns the filesystem root used to load specPath and the
// slash-separated name of the document within it. The root is the parent of
// the document's directory so that sibling directories can be imported.
func splitRoot(specPath string) (root, name string) {
	abs, err := filepath.Abs(specPath)
	if err != nil {
		abs = specPath
	}
	dir := filepath.Dir(abs)
	root = filepath.Dir(dir)
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir, filepath.Base(abs)
	}
	return root, filepath.ToSlash(rel)
}

// SpecPath returns the path of the root document.
func (c *Context) SpecPath() string {
	if filepath.IsAbs(c.Config.Spec) {
		return c.Config.Spec
	}
	return filepath.Join(c.Dir, c.Config.Spec)
}

// DocumentPaths returns the file of every document making up spec, loaded
// from specPath, in lookup order.
func DocumentPaths(specPath string, spec *model.Specification) []string {
	root, _ := splitRoot(specPath)
	docs := spec.Documents()
	paths := make([]string, len(docs))
	for i, doc := range docs {
		paths[i] = filepath.Join(root, filepath.FromSlash(doc.Source))
	}
	return paths
}

// OutputDir returns the absolute directory generated artifacts go to.
func (c *Context) OutputDir() string {
	out := c.Config.Output
	if out == "" {
		out = config.DefaultOutput
	}
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(c.Dir, out)
}

// From extracts the xddl Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sc
	}
	return nil
}
