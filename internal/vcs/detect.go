package vcs

import (
	"os"
	"path/filepath"
	"strings"
)

// MarkerDir is the repository metadata directory git leaves in a working tree.
const MarkerDir = ".git"

// HasMarker reports whether folder directly contains a .git directory.
// Stat failures of any kind mean the folder does not qualify. A .git file
// (worktree link) is not counted.
func HasMarker(folder string) bool {
	info, err := os.Stat(filepath.Join(folder, MarkerDir))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// AnyUnderVersionControl reports whether at least one file-scheme folder
// carries a .git directory. Other schemes are ignored.
func AnyUnderVersionControl(folders []WorkspaceFolder) bool {
	for _, f := range folders {
		if !f.IsFile() {
			continue
		}
		if HasMarker(f.FSPath()) {
			return true
		}
	}
	return false
}

// FindRepoRoot walks up from path looking for a .git directory.
// Returns ErrNotInRepo if the filesystem root is reached.
func FindRepoRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	current := absPath
	for {
		if HasMarker(current) {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotInRepo
		}
		current = parent
	}
}

// IsGitAvailable checks if a git binary is available on PATH or in one of
// the common install locations.
func IsGitAvailable() bool {
	paths := []string{
		"/usr/bin/git",
		"/usr/local/bin/git",
		"/opt/homebrew/bin/git",
	}

	if pathEnv := os.Getenv("PATH"); pathEnv != "" {
		for _, dir := range strings.Split(pathEnv, string(os.PathListSeparator)) {
			if _, err := os.Stat(filepath.Join(dir, "git")); err == nil {
				return true
			}
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}

	return false
}
