// Package vcs holds the toolchain-neutral types shared by the git
// integration: the located binary, workspace folders, and the outcome of a
// single configuration write.
//
// # Usage
//
//	tc, err := git.NewLocator().Locate(ctx, hint, nil)
//	if errors.Is(err, vcs.ErrToolchainNotFound) {
//	    // route to missing-toolchain recovery
//	}
//
// # Implementations
//
//   - internal/vcs/git: discovery and configuration of the git binary
package vcs

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Toolchain describes a discovered git binary. It is immutable once
// returned by the locator.
type Toolchain struct {
	// Path is the absolute path to the binary
	Path string

	// Version is the dotted version string as reported by the binary,
	// e.g. "2.30.1". It is never parsed beyond its first character.
	Version string
}

// Valid reports whether the toolchain points at a binary.
func (t Toolchain) Valid() bool {
	return t.Path != ""
}

func (t Toolchain) String() string {
	if !t.Valid() {
		return "<none>"
	}
	return "git " + t.Version + " (" + t.Path + ")"
}

// WorkspaceFolder is a root folder opened by the host.
type WorkspaceFolder struct {
	URI *url.URL
}

// FolderFromPath builds a file-scheme folder from a local path.
func FolderFromPath(path string) WorkspaceFolder {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return WorkspaceFolder{URI: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}}
}

// ParseFolder parses a folder URI. Bare paths are treated as file URIs.
func ParseFolder(raw string) (WorkspaceFolder, error) {
	if !strings.Contains(raw, "://") {
		return FolderFromPath(raw), nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return WorkspaceFolder{}, err
	}
	return WorkspaceFolder{URI: u}, nil
}

// IsFile reports whether the folder lives on the local filesystem.
func (f WorkspaceFolder) IsFile() bool {
	return f.URI != nil && f.URI.Scheme == "file"
}

// FSPath returns the local filesystem path of a file-scheme folder.
func (f WorkspaceFolder) FSPath() string {
	if f.URI == nil {
		return ""
	}
	return filepath.FromSlash(f.URI.Path)
}

func (f WorkspaceFolder) String() string {
	if f.URI == nil {
		return ""
	}
	return f.URI.String()
}

// ConfigKeyResult is the outcome of one global configuration write.
type ConfigKeyResult struct {
	Key        string
	Succeeded  bool
	Diagnostic string
}
