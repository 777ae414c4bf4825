//go:build !windows

package git

func wellKnownPaths() []string {
	return []string{
		"/usr/bin/git",
		"/usr/local/bin/git",
		"/opt/homebrew/bin/git",
	}
}
