package config

// Linker-injected build metadata variables. These are set at compile time via
// -ldflags, for example:
//
//	go build -ldflags "-X github.com/colinjlacy/knapscen-email-notifications/internal/config.version=1.2.3 \
//	    -X github.com/colinjlacy/knapscen-email-notifications/internal/config.commit=$(git rev-parse --short HEAD) \
//	    -X github.com/colinjlacy/knapscen-email-notifications/internal/config.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Default values are used during local development when ldflags are not set.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo constructs a BuildInfo from the linker-injected global
// variables. Called once during initialization to populate Config.Build.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}
