// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package version reports what this xddl binary is and which inputs it
// understands.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/atl-tw/xddl-sub001/internal/config"
	"github.com/atl-tw/xddl-sub001/internal/document"
)

// Set at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes a build.
type Info struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string

	// ConfigVersion is the xddl.yaml format version this build writes.
	ConfigVersion int
	// Formats are the document encodings this build reads and writes.
	Formats []string
}

var (
	once  sync.Once
	build Info
)

// Get returns the build information. Values not set through ldflags are
// taken from the module build info when available.
func Get() Info {
	once.Do(func() {
		build = Info{
			Version:       Version,
			Commit:        Commit,
			Date:          Date,
			GoVersion:     runtime.Version(),
			ConfigVersion: config.CurrentConfigVersion,
			Formats:       document.FormatNames(),
		}
		if bi, ok := debug.ReadBuildInfo(); ok {
			fillFromBuildInfo(&build, bi)
		}
	})
	return build
}

func fillFromBuildInfo(i *Info, bi *debug.BuildInfo) {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "none" && len(s.Value) >= 7 {
				i.Commit = s.Value[:7]
			}
		case "vcs.time":
			if i.Date == "unknown" {
				i.Date = s.Value
			}
		}
	}
}

// String renders the build on two lines: the binary and what it reads.
func (i Info) String() string {
	return fmt.Sprintf("xddl version %s (commit: %s, built: %s, go: %s)\nconfig format: v%d, documents: %s",
		i.Version, i.Commit, i.Date, i.GoVersion, i.ConfigVersion, strings.Join(i.Formats, ", "))
}

// Short returns just the version string.
func Short() string {
	return Get().Version
}
