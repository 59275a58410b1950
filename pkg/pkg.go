// Package pkg holds the identity of the pyx module: its name, summary,
// version, and authors.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded at build time from the VERSION
// file. It is printed by the version subcommand.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It appears in
	// help text, default config paths, and the artifact cache tag.
	Name = "pyx"
	// Description is a short summary used in help output.
	Description = "Python with inline tag literals: transpiler and artifact loader"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
