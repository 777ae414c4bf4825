// Package git drives the git binary on behalf of the host: locating it,
// running it with the credential environment overlay, and writing global
// configuration.
package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/steveyegge/gitbridge/internal/vcs"
)

// OutputListener receives raw text produced by git invocations.
type OutputListener func(raw string)

// Git runs a located git toolchain.
type Git struct {
	toolchain vcs.Toolchain
	logger    *log.Logger

	mu        sync.RWMutex
	env       map[string]string
	listeners map[int]OutputListener
	nextID    int
}

// New creates a runner for the given toolchain. A nil logger discards.
func New(tc vcs.Toolchain, logger *log.Logger) *Git {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Git{
		toolchain: tc,
		logger:    logger,
		listeners: make(map[int]OutputListener),
	}
}

// Toolchain returns the binary this runner invokes.
func (g *Git) Toolchain() vcs.Toolchain {
	return g.toolchain
}

// SetEnv replaces the environment overlay applied to every invocation.
func (g *Git) SetEnv(overlay map[string]string) {
	copied := make(map[string]string, len(overlay))
	for k, v := range overlay {
		copied[k] = v
	}

	g.mu.Lock()
	g.env = copied
	g.mu.Unlock()
}

// Env returns a copy of the current overlay.
func (g *Git) Env() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	copied := make(map[string]string, len(g.env))
	for k, v := range g.env {
		copied[k] = v
	}
	return copied
}

// OnOutput subscribes to raw git output. The returned func unsubscribes
// and is safe to call more than once.
func (g *Git) OnOutput(fn OutputListener) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.listeners, id)
			g.mu.Unlock()
		})
	}
}

func (g *Git) emit(raw string) {
	g.mu.RLock()
	fns := make([]OutputListener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.RUnlock()

	for _, fn := range fns {
		fn(raw)
	}
}

func (g *Git) command(ctx context.Context, dir string, args ...string) (*exec.Cmd, error) {
	if !g.toolchain.Valid() {
		return nil, vcs.ErrNoToolchain
	}

	return vcs.Command(ctx, dir, g.Env(), g.toolchain.Path, args...), nil
}

// Exec executes a raw git command in dir and returns its combined output.
// The command line and its output are published to output listeners.
func (g *Git) Exec(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd, err := g.command(ctx, dir, args...)
	if err != nil {
		return nil, err
	}

	g.emit("> git " + strings.Join(args, " ") + "\n")

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		g.emit(string(output))
	}
	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\n%s",
			strings.Join(args, " "), err, vcs.TrimOutput(output))
	}

	return output, nil
}

// Run executes git attached to the given streams. Stdin is passed through
// so credential helpers and pagers behave as in a terminal.
func (g *Git) Run(ctx context.Context, dir string, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	cmd, err := g.command(ctx, dir, args...)
	if err != nil {
		return err
	}

	g.emit("> git " + strings.Join(args, " ") + "\n")

	var captured bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, &captured)

	err = cmd.Run()
	if captured.Len() > 0 {
		g.emit(captured.String())
	}
	return err
}
