// Package version exposes build information injected via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Service is the name reported by /version and in startup logs.
const Service = "poll-battle"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

func Get() Info {
	return Info{
		Service:   Service,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String renders the info for log lines, e.g. "poll-battle dev (unknown)".
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Service, i.Version, i.Commit)
}
