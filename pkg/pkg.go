// Package pkg describes the aspl project: its name, version, and the
// per-user directories it reads configuration from.
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text and default config paths.
	Name = "aspl"
	// Description is a short summary used in help output.
	Description = "Interpreter for the aspl scripting language"
	// Extension is the conventional file extension of aspl scripts.
	Extension = ".aspl"
	// PathEnv names the environment variable holding additional @source
	// search directories, separated by [os.PathListSeparator].
	PathEnv = "ASPL_PATH"
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
