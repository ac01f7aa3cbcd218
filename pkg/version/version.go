// Package version holds build metadata, set at link time:
//
//	go build -ldflags "-X github.com/guimove/linkfit/pkg/version.Version=v0.1.0"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
