// Package buildinfo carries version metadata injected at link time:
//
//	go build -ldflags "-X github.com/jcfinanceiro/jcfinanceiro/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)

// String renders "version (commit, date)".
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
