// Package buildinfo carries release metadata stamped by the linker:
//
//	go build -ldflags "-X github.com/cleared-dev/reclass/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the metadata for `reclass --version`.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
