// Package buildinfo carries version details stamped at link time:
//
//	go build -ldflags "-X github.com/kakeibo-dev/kakeibo/internal/buildinfo.Version=v0.3.0" ./cmd/kakeibo
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
