package buildinfo

// Set via -ldflags "-X github.com/fintrack-dev/fintrack/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by `fintrack --version`.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
