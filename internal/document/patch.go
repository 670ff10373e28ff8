// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package document

import (
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/atl-tw/xddl-sub001/internal/model"
)

// ErrInvalidPatch indicates a patch that cannot be applied to the document.
var ErrInvalidPatch = errors.New("invalid patch")

// patchSuffixes are the file suffixes picked up from patch directories.
var patchSuffixes = []string{".patch.yaml", ".patch.yml", ".patch.json", ".patch.toml"}

// patches applies every patch file found under the patch directories, in
// lexical path order, and returns how many were applied.
//
// A patch names a structure of the document and lists fields. A field with
// delete set removes the field of that name. A field whose original and
// patch types are both inline structures, or both lists of inline
// structures, is merged recursively. Any other field replaces the original
// in place, or is appended when the structure has no field of that name.
func (l *Loader) patches(spec *model.Specification, dir string, patches []string) (int, error) {
	applied := 0
	for _, p := range patches {
		root := path.Join(dir, p)
		err := fs.WalkDir(l.fsys, root, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasSuffix(d.Name(), patchSuffixes) {
				return nil
			}
			raw, err := l.readPatch(name)
			if err != nil {
				return err
			}
			st, ok := spec.Structure(raw.Name)
			if !ok {
				return errors.Wrapf(ErrInvalidPatch, "%s: no structure %q in %s", name, raw.Name, spec.Source)
			}
			fields, err := mergeFields(st.Name, st.Fields, raw.Fields)
			if err != nil {
				return errors.Wrapf(err, "patch %s", name)
			}
			st.Fields = fields
			applied++
			return nil
		})
		if err != nil {
			return applied, errors.Wrapf(err, "patches %s", root)
		}
	}
	return applied, nil
}

func (l *Loader) readPatch(name string) (*rawPatch, error) {
	parser, err := ParserFor(name)
	if err != nil {
		return nil, err
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	raw, err := parser.parsePatch(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	if raw.Name == "" {
		return nil, errors.Wrapf(ErrInvalidPatch, "%s: missing structure name", name)
	}
	return raw, nil
}

// mergeFields returns fields with patch applied. The input slice is not
// modified.
func mergeFields(owner string, fields []*model.Field, patch []rawField) ([]*model.Field, error) {
	out := slices.Clone(fields)
	for _, pf := range patch {
		path := owner + "." + pf.Name
		at := slices.IndexFunc(out, func(f *model.Field) bool { return f.Name == pf.Name })

		if pf.Delete {
			if at < 0 {
				return nil, errors.Wrapf(ErrInvalidPatch, "%s: deleted field does not exist", path)
			}
			out = slices.Delete(out, at, at+1)
			continue
		}

		if at >= 0 {
			merged, ok, err := mergeInline(path, out[at].Type, pf.Type)
			if err != nil {
				return nil, err
			}
			if ok {
				f := *out[at]
				f.Type = merged
				out[at] = &f
				continue
			}
		}

		converted, err := toFields(owner, []rawField{pf})
		if err != nil {
			return nil, err
		}
		if at >= 0 {
			out[at] = converted[0]
		} else {
			out = append(out, converted[0])
		}
	}
	return out, nil
}

// mergeInline merges patch into orig when both are inline structures or
// lists of them. ok is false when the types do not merge that way.
func mergeInline(path string, orig model.TypeRef, patch *rawType) (model.TypeRef, bool, error) {
	if patch == nil || patch.Name != "" {
		return nil, false, nil
	}
	switch o := orig.(type) {
	case *model.InlineStructure:
		if patch.Structure == nil {
			return nil, false, nil
		}
		fields, err := mergeFields(path, o.Fields, patch.Structure.Fields)
		if err != nil {
			return nil, false, err
		}
		desc := o.Description
		if patch.Structure.Description != "" {
			desc = patch.Structure.Description
		}
		return &model.InlineStructure{Description: desc, Fields: fields}, true, nil
	case *model.ListOf:
		if patch.List == nil {
			return nil, false, nil
		}
		elem, ok, err := mergeInline(path+"[]", o.Elem, patch.List)
		if err != nil || !ok {
			return nil, false, err
		}
		return &model.ListOf{Elem: elem}, true, nil
	default:
		return nil, false, nil
	}
}

func hasSuffix(name string, suffixes []string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range suffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
