package version

// Build information set by ldflags
var (
	Version = "dev"     // Set by goreleaser: -X github.com/LuuuXXX/c2rust-build/internal/version.Version={{.Version}}
	Commit  = "unknown" // Set by goreleaser: -X github.com/LuuuXXX/c2rust-build/internal/version.Commit={{.Commit}}
	Date    = "unknown" // Set by goreleaser: -X github.com/LuuuXXX/c2rust-build/internal/version.Date={{.Date}}
)
