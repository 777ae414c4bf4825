// Command gitbridge bootstraps the git integration for a working directory:
// it finds git, routes credential prompts through its own prompts, and can
// register itself as git's editor, difftool and mergetool.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/bootstrap"
	"github.com/steveyegge/gitbridge/internal/outputlog"
	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs/git"
)

var (
	verbose   bool
	configDir string
	workDir   string
)

var rootCmd = &cobra.Command{
	Use:   "gitbridge",
	Short: "Locate git and wire it back to gitbridge",
	Long: `gitbridge locates a usable git binary, warns about old or missing
installations, answers git credential prompts interactively, and can install
itself as git's editor, difftool and mergetool.

Settings are read from settings.toml in the user config directory, from
.gitbridge.toml in the working directory, and from GITBRIDGE_* variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror the git output log to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding settings.toml (default: user config dir)")
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "C", "", "Working directory (default: current directory)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)
}

// app is the per-invocation environment shared by subcommands.
type app struct {
	store    *settings.Store
	output   *outputlog.FileChannel
	terminal *ui.Terminal
	logger   *log.Logger
}

func openApp() (*app, error) {
	var stderrLog io.Writer = io.Discard
	if verbose {
		stderrLog = os.Stderr
	}

	store, err := settings.Load(settings.Options{
		GlobalDir: configDir,
		WorkDir:   workDir,
		Logger:    log.New(stderrLog, "[settings] ", log.LstdFlags),
	})
	if err != nil {
		return nil, err
	}

	var mirror io.Writer
	if verbose {
		mirror = os.Stderr
	}
	output, err := outputlog.OpenFile(outputlog.FileConfig{
		Path:       store.LogFile(),
		MaxSizeMB:  store.Int(settings.KeyLogMaxSize),
		MaxBackups: store.Int(settings.KeyLogMaxBackups),
		Mirror:     mirror,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open output log: %w", err)
	}

	return &app{
		store:    store,
		output:   output,
		terminal: ui.NewTerminal(os.Stderr),
		logger:   output.Logger("[gitbridge] "),
	}, nil
}

func (a *app) Close() error {
	return a.output.Close()
}

// activationConfig wires the app into an activation. A nil loc searches
// PATH and the platform install locations.
func (a *app) activationConfig(loc bootstrap.Locator) bootstrap.Config {
	if loc == nil {
		loc = git.NewLocator()
	}
	return bootstrap.Config{
		Settings: a.store,
		Locator:  loc,
		Prompter: a.terminal,
		Notifier: a.terminal,
		Opener:   ui.Browser{},
		Output:   a.output,
		LogPath:  a.output.Path(),
		OnWaiting: func() {
			a.terminal.Warn(fmt.Sprintf("git integration is disabled; waiting for %s to be enabled", settings.KeyEnabled))
		},
	}
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
