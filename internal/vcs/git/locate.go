package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/steveyegge/gitbridge/internal/vcs"
)

const defaultProbeTimeout = 10 * time.Second

var versionPattern = regexp.MustCompile(`^git version (\d+(?:\.[0-9A-Za-z]+)*)`)

// Locator searches candidate locations for a working git binary.
type Locator struct {
	// LookPath resolves a bare command name against PATH
	LookPath func(file string) (string, error)

	// WellKnown lists platform install locations probed after PATH
	WellKnown []string

	// Timeout bounds each `--version` probe
	Timeout time.Duration
}

// NewLocator returns a locator using PATH and the platform's usual
// install locations.
func NewLocator() *Locator {
	return &Locator{
		LookPath:  exec.LookPath,
		WellKnown: wellKnownPaths(),
		Timeout:   defaultProbeTimeout,
	}
}

// Locate returns the first candidate whose `--version` probe succeeds.
// The hint, when set, is tried first. onCandidate, when non-nil, is called
// with each path before it is probed. Exhausting every candidate returns a
// *vcs.NotFoundError.
func (l *Locator) Locate(ctx context.Context, hint string, onCandidate func(path string)) (vcs.Toolchain, error) {
	candidates := l.candidates(hint)

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return vcs.Toolchain{}, err
		}

		if onCandidate != nil {
			onCandidate(path)
		}

		version, err := l.probe(ctx, path)
		if err != nil {
			continue
		}

		return vcs.Toolchain{Path: path, Version: version}, nil
	}

	if err := ctx.Err(); err != nil {
		return vcs.Toolchain{}, err
	}
	return vcs.Toolchain{}, &vcs.NotFoundError{Candidates: candidates}
}

func (l *Locator) candidates(hint string) []string {
	var raw []string

	if hint = strings.TrimSpace(hint); hint != "" {
		if !strings.ContainsAny(hint, `/\`) && l.LookPath != nil {
			if resolved, err := l.LookPath(hint); err == nil {
				hint = resolved
			}
		}
		raw = append(raw, hint)
	}

	if l.LookPath != nil {
		if path, err := l.LookPath("git"); err == nil {
			raw = append(raw, path)
		}
	}

	raw = append(raw, l.WellKnown...)

	seen := make(map[string]bool, len(raw))
	result := make([]string, 0, len(raw))
	for _, p := range raw {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}

	return result
}

func (l *Locator) probe(ctx context.Context, path string) (string, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	output, err := vcs.ExecContext(ctx, timeout, "", path, "--version")
	if err != nil {
		return "", err
	}

	return ParseVersion(output)
}

// ParseVersion extracts the version from `git --version` output, e.g.
// "git version 2.39.3 (Apple Git-146)" yields "2.39.3".
func ParseVersion(output []byte) (string, error) {
	first, _ := vcs.SplitFirstLine(output)
	m := versionPattern.FindStringSubmatch(first)
	if m == nil {
		return "", fmt.Errorf("unrecognized version output: %q", first)
	}
	return m[1], nil
}
