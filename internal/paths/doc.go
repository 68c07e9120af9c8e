// Package paths provides path resolution for the guidelines CLI.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg so the configuration file and the
// remote registry cache follow XDG conventions on Linux and macOS:
//
//	| Purpose        | Location                              |
//	|----------------|---------------------------------------|
//	| Config file    | <ConfigHome>/guidelines/config.yaml   |
//	| Remote cache   | <CacheHome>/guidelines/remote/        |
//
// # Destinations
//
// Manifest destinations are relative to the directory the tool is applied
// to. [ResolveDestination] joins them onto that directory and rejects any
// destination that would land outside it.
package paths
