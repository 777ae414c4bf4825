package vcs

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestHasMarker(t *testing.T) {
	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	linked := t.TempDir()
	if err := os.WriteFile(filepath.Join(linked, ".git"), []byte("gitdir: /elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		folder   string
		expected bool
	}{
		{name: "git directory", folder: repo, expected: true},
		{name: "git file", folder: linked, expected: false},
		{name: "plain directory", folder: t.TempDir(), expected: false},
		{name: "missing directory", folder: filepath.Join(repo, "does-not-exist"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMarker(tt.folder); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAnyUnderVersionControl(t *testing.T) {
	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	plain := t.TempDir()
	remote := WorkspaceFolder{URI: &url.URL{Scheme: "vsls", Path: filepath.ToSlash(repo)}}

	if AnyUnderVersionControl(nil) {
		t.Error("Expected false for no folders")
	}
	if AnyUnderVersionControl([]WorkspaceFolder{FolderFromPath(plain)}) {
		t.Error("Expected false for folder without marker")
	}
	if AnyUnderVersionControl([]WorkspaceFolder{remote}) {
		t.Error("Expected non-file folders to be ignored")
	}
	if !AnyUnderVersionControl([]WorkspaceFolder{FolderFromPath(plain), FolderFromPath(repo)}) {
		t.Error("Expected true when one folder has a marker")
	}
}

func TestFindRepoRoot(t *testing.T) {
	repo := t.TempDir()
	if err := os.Mkdir(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(repo, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	root, err := FindRepoRoot(nested)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want, _ := filepath.Abs(repo)
	if root != want {
		t.Errorf("Expected %s, got %s", want, root)
	}
}

func TestParseFolder(t *testing.T) {
	f, err := ParseFolder("vsls://host/share")
	if err != nil {
		t.Fatal(err)
	}
	if f.IsFile() {
		t.Error("Expected non-file folder")
	}

	f, err = ParseFolder(".")
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsFile() || !filepath.IsAbs(f.FSPath()) {
		t.Errorf("Expected absolute file folder, got %s", f)
	}
}

func TestNotFoundError(t *testing.T) {
	var err error = &NotFoundError{Candidates: []string{"/usr/bin/git"}}
	if !IsNotFound(err) {
		t.Error("Expected NotFoundError to match ErrToolchainNotFound")
	}
	if IsFatal(err) {
		t.Error("Expected missing toolchain to be recoverable")
	}
	if !IsFatal(ErrNoToolchain) {
		t.Error("Expected other errors to be fatal")
	}
}
