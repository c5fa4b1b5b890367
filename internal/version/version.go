// Package version reports which build of storeops is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X .../version.Commit=... -X .../version.BuildTime=...".
var (
	Commit    = ""
	BuildTime = ""
)

// String returns "storeops <commit> (built <time>)". When ldflags were not
// supplied, the VCS stamp embedded by the Go toolchain is used instead.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime := fromBuildInfo()
		if commit == "" {
			commit = vcsCommit
		}
		if built == "" {
			built = vcsTime
		}
	}
	return format(commit, built)
}

func format(commit, built string) string {
	if commit == "" {
		commit = "dev"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if built == "" {
		return "storeops " + commit
	}
	return fmt.Sprintf("storeops %s (built %s)", commit, built)
}

func fromBuildInfo() (commit, built string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			built = s.Value
		}
	}
	return commit, built
}
