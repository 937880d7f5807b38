// Package version reports build metadata. Release builds stamp it with
//
//	-ldflags "-X tubeport/internal/core/version.version=v0.3.0 -X tubeport/internal/core/version.commit=1a2b3c4"
//
// Otherwise the vcs revision recorded by the go toolchain is used when present
package version

import (
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo describes one binary
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

var vcs = sync.OnceValues(func() (rev, at string) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	return rev, at
})

// Info returns the build information for service
func Info(service string) BuildInfo {
	b := BuildInfo{Service: service, Version: version, Commit: commit, Date: date, Go: runtime.Version()}
	rev, at := vcs()
	if b.Commit == "" {
		b.Commit = rev
	}
	if b.Date == "" {
		b.Date = at
	}
	if len(b.Commit) > 7 {
		b.Commit = b.Commit[:7]
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	return b
}
