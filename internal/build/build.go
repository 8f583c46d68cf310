// Package build holds build-time metadata injected via -ldflags.
package build

// Version is the application version, overridden at link time.
var Version = "dev"
