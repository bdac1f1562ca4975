package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/confman/confman/internal/version.Version
	Commit  = "unknown" // -X github.com/confman/confman/internal/version.Commit
	Date    = "unknown" // -X github.com/confman/confman/internal/version.Date
)
