// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Cadence is the canonical application identifier used for filesystem paths and CLI branding.
	Cadence = "cadence"

	// Version is the current application semantic version string.
	Version = "0.1.0"
)

// Build metadata, overridable through -ldflags at release time.
var (
	Revision = "unknown"
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
)
