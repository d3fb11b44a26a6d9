// Package version records the build identity stamped at link time.
package version

// Stamped via -ldflags "-X github.com/uimorph/uimorph/pkg/version.Version=...".
var (
	Version       = "dev"
	BinaryGitHash = "<unknown>"
)

// String renders the version the way the CLI prints it.
func String() string {
	return Version + " (" + BinaryGitHash + ")"
}
