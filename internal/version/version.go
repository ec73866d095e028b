// Package version provides build-time version information for testerhub.
// Variables are injected at build time via ldflags; `go install` builds fall
// back to the module version recorded in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"

	"golang.org/x/mod/semver"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var resolveOnce sync.Once

func resolve() {
	if Version != "dev" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok || !semver.IsValid(info.Main.Version) {
		return
	}
	Version = info.Main.Version
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			GitCommit = s.Value
		case "vcs.time":
			BuildDate = s.Value
		}
	}
}

// Info returns a formatted version string suitable for version output.
func Info() string {
	resolveOnce.Do(resolve)
	return fmt.Sprintf("testerhub %s (commit: %s, built: %s, go: %s)",
		Version, GitCommit, BuildDate, runtime.Version())
}

// Short returns just the version string (e.g., "v0.1.0" or "dev").
func Short() string {
	resolveOnce.Do(resolve)
	return Version
}

// IsRelease reports whether the binary carries a semantic release version.
func IsRelease() bool {
	v := Short()
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// UserAgent is sent on outbound HTTP requests.
func UserAgent() string {
	return "testerhub/" + Short()
}

// Map returns version info as a map for JSON serialization.
func Map() map[string]string {
	resolveOnce.Do(resolve)
	return map[string]string{
		"version":    Version,
		"git_commit": GitCommit,
		"build_date": BuildDate,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
	}
}
