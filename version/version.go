// Package version holds the build version, set with
// -ldflags "-X github.com/trollsnake/engine/version.Version=...".
package version

// Version is the engine version.
var Version = "dev"
