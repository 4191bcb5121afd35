package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables injected via ldflags
var (
	// Version is the semantic version, injected at build time
	Version = "dev"

	// GitCommit is the git commit hash, injected at build time
	GitCommit = "unknown"

	// BuildDate is the build date, injected at build time
	BuildDate = "unknown"

	// GoVersion is the Go version used to build
	GoVersion = runtime.Version()

	// GitDirty indicates if the working tree was dirty during build
	GitDirty = ""
)

// Info returns the version string, with a dirty marker when applicable.
func Info() string {
	v := Version
	if GitDirty == "true" && !strings.Contains(v, "-dirty") {
		v += "-dirty"
	}
	return v
}

// Full returns the version string with the short commit hash appended.
func Full() string {
	info := Info()
	if GitCommit != "" && GitCommit != "unknown" && len(GitCommit) >= 7 {
		info += fmt.Sprintf(" (%s)", GitCommit[:7])
	}
	return info
}
