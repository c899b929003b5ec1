// Package version provides version information for the codecombiner CLI tool.
package version

import (
	"errors"
	"fmt"
	"runtime"

	latest "github.com/tcnksm/go-latest"
)

// These variables are populated at build time using -ldflags.
// Example:
// go build -ldflags "-X 'codecombiner/pkg/version.Version=1.2.3' -X 'codecombiner/pkg/version.Commit=abcdefg' -X 'codecombiner/pkg/version.BuildTime=2024-04-27T15:04:05Z'"
var (
	Version   = "dev"     // Semantic version of the application
	Commit    = "none"    // Git commit hash
	BuildTime = "unknown" // Build timestamp

	// GitHub repository whose tags are the release feed, e.g.
	// -X 'codecombiner/pkg/version.ReleaseOwner=acme' -X 'codecombiner/pkg/version.ReleaseRepository=codecombiner'
	ReleaseOwner      = ""
	ReleaseRepository = ""
)

// ErrNoReleaseFeed is returned by CheckLatest when the build names no release feed.
var ErrNoReleaseFeed = errors.New("no release feed configured")

// AppName is reported in log fields and version output.
const AppName = "codecombiner"

// Info contains comprehensive version information.
type Info struct {
	Version   string // Semantic version
	GitCommit string // Git commit hash
	BuildTime string // Build timestamp
	GoVersion string // Go runtime version
	Platform  string // OS and architecture
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the version information in a standard, single-line format.
// Example Output:
// codecombiner version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.22.4 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf(
		"%s version %s (commit: %s) built at %s with %s on %s",
		AppName,
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}

// Release is the outcome of comparing the running build with the newest published tag.
type Release struct {
	Current  string
	Latest   string
	Outdated bool
}

// ReleaseSource returns the GitHub tag feed named at build time, or nil when none was set.
func ReleaseSource() latest.Source {
	if ReleaseOwner == "" || ReleaseRepository == "" {
		return nil
	}
	return &latest.GithubTag{Owner: ReleaseOwner, Repository: ReleaseRepository}
}

// CheckLatest asks src for the newest release. Development builds are never reported as outdated.
func CheckLatest(src latest.Source, current string) (Release, error) {
	if current == "dev" || current == "" {
		return Release{Current: current}, nil
	}
	if src == nil {
		return Release{Current: current}, ErrNoReleaseFeed
	}
	res, err := latest.Check(src, current)
	if err != nil {
		return Release{Current: current}, fmt.Errorf("failed to check latest version: %w", err)
	}
	return Release{Current: current, Latest: res.Current, Outdated: res.Outdated}, nil
}
