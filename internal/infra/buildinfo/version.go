package buildinfo

import (
	"fmt"
	"runtime"
)

// Build-time variables (set via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = ""
)

// ProductName identifies the client in User-Agent headers.
const ProductName = "hwdesk-cli"

// Info contains build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information.
func Get() Info {
	goVersion := GoVersion
	if goVersion == "" {
		goVersion = runtime.Version()
	}
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: goVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}

// UserAgent returns the User-Agent value sent with every API request,
// e.g. "hwdesk-cli/v0.3.0 (linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s/%s)", ProductName, Version, runtime.GOOS, runtime.GOARCH)
}
