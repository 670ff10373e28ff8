// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package output

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	defaultFilePerm = 0o644
	defaultDirPerm  = 0o755
	bufSize         = 64 * 1024
)

// Dir writes artifacts below a root directory. Each artifact is written to
// a temporary file next to its destination and renamed into place once the
// content has been flushed and synced.
type Dir struct {
	root     string
	filePerm os.FileMode
	dirPerm  os.FileMode
}

var _ Location = (*Dir)(nil)

// NewDir returns a Dir rooted at root. The directory is created on first
// write if it does not exist.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, errors.Wrap(ErrPathInvalid, "empty output directory")
	}
	return &Dir{root: root, filePerm: defaultFilePerm, dirPerm: defaultDirPerm}, nil
}

// Root returns the root directory.
func (d *Dir) Root() string {
	return d.root
}

// Path returns the filesystem path of the artifact called name.
func (d *Dir) Path(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

// Write implements Location.
func (d *Dir) Write(name string, fn func(w io.Writer) error) (Artifact, error) {
	dest, err := d.Path(name)
	if err != nil {
		return Artifact{}, err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, d.dirPerm); err != nil {
		return Artifact{}, errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "create temporary file for %s", name)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriterSize(tmp, bufSize)
	cw := &countingWriter{w: bw}
	if err := fn(cw); err != nil {
		return Artifact{}, errors.Wrapf(err, "write %s", name)
	}
	if err := bw.Flush(); err != nil {
		return Artifact{}, errors.Wrapf(err, "flush %s", name)
	}
	if err := tmp.Chmod(d.filePerm); err != nil {
		return Artifact{}, errors.Wrapf(err, "chmod %s", name)
	}
	if err := tmp.Sync(); err != nil {
		return Artifact{}, errors.Wrapf(err, "sync %s", name)
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, errors.Wrapf(err, "close %s", name)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return Artifact{}, errors.Wrapf(err, "rename into %s", dest)
	}
	committed = true

	clean, _ := CleanName(name)
	return Artifact{Name: clean, Size: cw.n}, nil
}
