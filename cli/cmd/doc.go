// Package cmd implements the pyx subcommands: transpile, build, compile,
// load, ast, repl, init, and version.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the user cache directory.
	CacheIdentifier = "cache"

	// ProjectIdentifier is the kong variable identifier containing the path
	// of the user project file.
	ProjectIdentifier = "project"
)
