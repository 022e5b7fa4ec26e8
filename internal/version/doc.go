// Package version exposes build metadata for the console.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. UserAgent identifies the console to the grinder backend.
package version
