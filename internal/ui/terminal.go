package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Prompter asks the user to pick an action or type an answer.
type Prompter interface {
	// Choose shows message with labelled choices. It returns the chosen
	// label, or "" when the prompt was dismissed.
	Choose(ctx context.Context, message string, choices ...string) (string, error)

	// Ask requests free text. ok is false when the prompt was dismissed.
	Ask(ctx context.Context, prompt string, secret bool) (answer string, ok bool, err error)
}

// Notifier shows one-line messages.
type Notifier interface {
	Info(message string)
	Error(message string)
}

// Terminal is the Prompter and Notifier for an interactive shell. When
// stdin is not a terminal every prompt resolves as dismissed.
type Terminal struct {
	out         io.Writer
	interactive bool

	// prompts never overlap, even when the askpass server and the
	// activation flow ask at the same time
	mu sync.Mutex
}

// NewTerminal writes notices to out and prompts on the process terminal.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:         out,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// Interactive reports whether prompts can be shown.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// Info prints an informational notice.
func (t *Terminal) Info(message string) {
	fmt.Fprintf(t.out, "%s %s\n", RenderPass("✓"), message)
}

// Error prints an error notice.
func (t *Terminal) Error(message string) {
	fmt.Fprintf(t.out, "%s %s\n", RenderFail("✗"), message)
}

// Warn prints a warning notice.
func (t *Terminal) Warn(message string) {
	fmt.Fprintf(t.out, "%s %s\n", RenderWarn("⚠"), message)
}

// Choose implements Prompter.
func (t *Terminal) Choose(ctx context.Context, message string, choices ...string) (string, error) {
	if !t.interactive {
		t.Warn(message)
		return "", nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	const dismiss = "\x00dismiss"
	opts := make([]huh.Option[string], 0, len(choices)+1)
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c, c))
	}
	opts = append(opts, huh.NewOption("Close", dismiss))

	var picked string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(message).
			Options(opts...).
			Value(&picked),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}

	if picked == dismiss {
		return "", nil
	}
	return picked, nil
}

// Ask implements Prompter.
func (t *Terminal) Ask(ctx context.Context, prompt string, secret bool) (string, bool, error) {
	if !t.interactive {
		return "", false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	mode := huh.EchoModeNormal
	if secret {
		mode = huh.EchoModePassword
	}

	var answer string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(strings.TrimSpace(prompt)).
			EchoMode(mode).
			Value(&answer),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", false, nil
		}
		return "", false, err
	}

	return answer, true, nil
}
