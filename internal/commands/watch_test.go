// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/atl-tw/xddl-sub001/internal/logging"
)

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })
	require.NoError(t, watcher.Add(dir))

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), zaptest.NewLogger(t)))
	defer cancel()

	rebuilds := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, watcher, 50*time.Millisecond, func() error {
			rebuilds <- struct{}{}
			return errors.New("invalid intermediate state")
		})
	}()

	// Other files are ignored.
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	select {
	case <-rebuilds:
		t.Fatal("rebuild on a non-document change")
	case <-time.After(200 * time.Millisecond):
	}

	// A burst of writes rebuilds once; a failing rebuild keeps the loop alive.
	for i := 0; i < 3; i++ {
		writeFile(t, filepath.Join(dir, "people.xddl.yaml"), "title: People\n")
	}
	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a document change")
	}
	select {
	case <-rebuilds:
		t.Fatal("burst was not debounced")
	case <-time.After(200 * time.Millisecond):
	}

	writeFile(t, filepath.Join(dir, "units.xddl.json"), "{}")
	select {
	case <-rebuilds:
	case <-time.After(5 * time.Second):
		t.Fatal("loop stopped after a failed rebuild")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestWatchDocuments(t *testing.T) {
	sc := loadProject(t, testConfig)
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Close() })

	watchDocuments(zaptest.NewLogger(t), watcher, []string{
		filepath.Join(sc.Dir, "spec", "people.xddl.yaml"),
		filepath.Join(sc.Dir, "spec", "units.xddl.yaml"),
		filepath.Join(sc.Dir, "missing", "x.xddl.yaml"),
	})
	assert.Equal(t, []string{filepath.Join(sc.Dir, "spec")}, watcher.WatchList())
}
