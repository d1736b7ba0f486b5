// Package version provides version information and build metadata for
// dsidx.
//
// Version reporting works from two sources: compile-time injection via
// build flags, and runtime detection through Go's build info. That keeps
// version output meaningful in development, CI, and release builds alike.
//
// Version Information Sources:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// The package provides multiple version formats:
//   - GetVersion(): Simple version string, also stamped into scan reports
//   - GetFullVersion(): Formatted version with commit and build date
//   - GetInfo(): Complete version information as a struct
//
// Build Integration:
// Release builds inject version information at link time using:
//
//	-ldflags "-X package/version.Version=v1.0.0 -X package/version.Commit=abc123 -X package/version.Date=2023-01-01T00:00:00Z"
package version
