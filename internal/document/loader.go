// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"io/fs"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/atl-tw/xddl-sub001/internal/logging"
	"github.com/atl-tw/xddl-sub001/internal/model"
)

// includeSuffixes are the file suffixes picked up from include directories.
var includeSuffixes = []string{".xddl.yaml", ".xddl.yml", ".xddl.json", ".xddl.toml"}

// Loader reads documents and everything they import from a filesystem.
// A document imported by several others is loaded once and shared.
type Loader struct {
	fsys    fs.FS
	log     *zap.Logger
	docs    map[string]*model.Specification
	loading []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// NewLoader creates a Loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys: fsys,
		log:  zap.NewNop(),
		docs: make(map[string]*model.Specification),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the document at name, then its include directories, its patch
// directories and its imports, all relative to the document's directory.
// Document identifiers are the cleaned slash-separated paths within the
// filesystem.
func (l *Loader) Load(name string) (*model.Specification, error) {
	if l.fsys == nil {
		return nil, errors.New("a filesystem is required to load documents")
	}
	return l.load(path.Clean(name))
}

func (l *Loader) load(name string) (*model.Specification, error) {
	if spec, ok := l.docs[name]; ok {
		return spec, nil
	}
	for i, open := range l.loading {
		if open == name {
			chain := append(append([]string(nil), l.loading[i:]...), name)
			return nil, errors.Wrapf(model.ErrMalformedSpecification,
				"import cycle: %s", strings.Join(chain, " -> "))
		}
	}
	l.loading = append(l.loading, name)
	defer func() { l.loading = l.loading[:len(l.loading)-1] }()

	parser, err := ParserFor(name)
	if err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	raw, err := parser.parseSpec(f)
	_ = f.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}

	spec, err := toModel(raw, name)
	if err != nil {
		return nil, err
	}

	dir := path.Dir(name)
	included, err := l.includes(spec, dir, raw.Includes)
	if err != nil {
		return nil, err
	}
	patched, err := l.patches(spec, dir, raw.Patches)
	if err != nil {
		return nil, err
	}

	for _, imp := range raw.Imports {
		target := path.Join(dir, imp)
		dep, err := l.load(target)
		if err != nil {
			return nil, errors.Wrapf(err, "%s imports %s", name, imp)
		}
		if err := spec.AddImport(dep); err != nil {
			return nil, err
		}
	}

	l.log.Debug("document loaded",
		zap.String(logging.FieldDocument, name),
		zap.Int(logging.FieldCount, spec.Len()),
		zap.Int("included", included),
		zap.Int("patched", patched),
		zap.Int("imports", len(raw.Imports)))

	l.docs[name] = spec
	return spec, nil
}

// includes appends the definitions found under each include directory, in
// lexical path order, and returns how many were added.
func (l *Loader) includes(spec *model.Specification, dir string, includes []string) (int, error) {
	added := 0
	for _, inc := range includes {
		root := path.Join(dir, inc)
		err := fs.WalkDir(l.fsys, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasSuffix(d.Name(), includeSuffixes) {
				return nil
			}
			def, err := l.definition(p)
			if err != nil {
				return err
			}
			if err := spec.Add(def); err != nil {
				return errors.Wrapf(err, "include %s", p)
			}
			added++
			return nil
		})
		if err != nil {
			return added, errors.Wrapf(err, "include %s", root)
		}
	}
	return added, nil
}

func (l *Loader) definition(name string) (model.Definition, error) {
	parser, err := ParserFor(name)
	if err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	raw, err := parser.parseDefinition(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return toDefinition(raw)
}

// IsDocument reports whether name looks like an xDDL file the loader reads.
func IsDocument(name string) bool {
	_, err := ParserFor(name)
	return err == nil
}
