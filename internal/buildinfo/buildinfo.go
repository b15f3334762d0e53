// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

import "runtime"

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Field is one labelled line of version output.
type Field struct {
	Label string
	Value string
}

// Fields returns the build details printed under the version line of both
// binaries, in display order.
func Fields() []Field {
	return []Field{
		{Label: "Commit", Value: CommitHash},
		{Label: "Built", Value: BuildDate},
		{Label: "OS/Arch", Value: runtime.GOOS + "/" + runtime.GOARCH},
		{Label: "Go", Value: runtime.Version()},
	}
}
