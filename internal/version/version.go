/*
Package version identifies the catalog-search build.

Release builds set the values with ldflags:

	go build -ldflags "-X github.com/khanglvm/catalog-search/internal/version.Version=v0.3.0 \
	  -X github.com/khanglvm/catalog-search/internal/version.Commit=$(git rev-parse --short HEAD) \
	  -X github.com/khanglvm/catalog-search/internal/version.Date=$(date -u +%F)"

A binary built with `go install module@version` has no ldflags; the module
version and VCS stamp from the embedded build info are used instead.
*/
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is the program name reported by the CLI, the MCP server and the
// HTTP API.
const Name = "catalog-search"

const devVersion = "dev"

// Set via ldflags.
var (
	Version = devVersion
	Commit  = "none"
	Date    = "unknown"
)

// Info describes the running build.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build info, falling back to the embedded module build
// info for fields ldflags left unset.
func Get() Info {
	info := Info{
		Name:      Name,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" && s.Value != "" {
				info.Commit = shortCommit(s.Value)
			}
		case "vcs.time":
			// RFC 3339; keep the date part.
			if info.Date == "unknown" && len(s.Value) >= 10 {
				info.Date = s.Value[:10]
			}
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// IsDev reports whether this is an unreleased build.
func (i Info) IsDev() bool {
	return i.Version == devVersion
}

// String is the one-line form used by `catalog-search --version`.
func (i Info) String() string {
	if i.IsDev() {
		return fmt.Sprintf("%s (development build, %s)", i.Version, i.GoVersion)
	}
	return fmt.Sprintf("%s (commit: %s, built: %s, %s)", i.Version, i.Commit, i.Date, i.GoVersion)
}

// UserAgent is "catalog-search/<version>", sent as the HTTP Server header.
func (i Info) UserAgent() string {
	return i.Name + "/" + i.Version
}
