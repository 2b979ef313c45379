package version

// Version contains the application version information.
// Set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/blogbuilder/internal/version.Version=v1.0.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "blogbuilder " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
