package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/steveyegge/gitbridge/internal/askpass"
	"github.com/steveyegge/gitbridge/internal/lifecycle"
	"github.com/steveyegge/gitbridge/internal/outputlog"
	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs"
	"github.com/steveyegge/gitbridge/internal/vcs/git"
)

// Locator finds a git toolchain.
type Locator interface {
	Locate(ctx context.Context, hint string, onCandidate func(path string)) (vcs.Toolchain, error)
}

// Config wires the collaborators of an activation.
type Config struct {
	Settings *settings.Store
	Locator  Locator
	Prompter ui.Prompter
	Notifier ui.Notifier
	Opener   ui.URLOpener

	// Output receives git output and diagnostics
	Output outputlog.Channel

	// LogPath is shown to users when an operation failed
	LogPath string

	// Executable resolves the gitbridge binary (default: ExecutablePath)
	Executable func() (string, error)

	// TempDir parents the askpass socket directory
	TempDir string

	// OnWaiting is called before blocking on git.enabled
	OnWaiting func()
}

// Session is one activated git integration. Close releases everything it
// acquired.
type Session struct {
	Toolchain vcs.Toolchain
	Git       *git.Git
	Askpass   *askpass.Server
	Installer *Installer
	Teardown  *lifecycle.Registry

	logger *log.Logger
}

// Logger writes to the output log.
func (s *Session) Logger() *log.Logger {
	return s.logger
}

// Close runs every registered teardown task.
func (s *Session) Close(ctx context.Context) error {
	return s.Teardown.Shutdown(ctx)
}

// Activate waits for git.enabled, locates git and wires the session. When
// git cannot be found, missing-toolchain recovery runs and the returned
// error matches vcs.ErrToolchainNotFound.
func Activate(ctx context.Context, cfg Config) (*Session, error) {
	logger := log.New(io.Discard, "", 0)
	if cfg.Output != nil {
		logger = log.New(channelWriter{cfg.Output}, "", 0)
	}
	if cfg.Executable == nil {
		cfg.Executable = ExecutablePath
	}

	store := cfg.Settings
	teardown := lifecycle.NewRegistry(logger)

	if w, err := store.Watch(); err != nil {
		logger.Printf("settings will not reload: %v", err)
	} else {
		teardown.Register("settings watcher", func(context.Context) error { return w.Close() })
	}

	if !store.Enabled() && cfg.OnWaiting != nil {
		cfg.OnWaiting()
	}
	if err := AwaitEnablement(ctx, store.Enabled(), store, store.Enabled); err != nil {
		return nil, shutdownWith(ctx, teardown, err)
	}

	tc, err := cfg.Locator.Locate(ctx, store.GitPath(), func(path string) {
		logger.Printf("Looking for git in: %s", path)
	})
	if err != nil {
		if !vcs.IsNotFound(err) {
			return nil, shutdownWith(ctx, teardown, fmt.Errorf("locate git: %w", err))
		}

		logger.Printf("%v", err)
		if rerr := recoverMissing(ctx, cfg, store); rerr != nil {
			logger.Printf("missing git recovery: %v", rerr)
		}
		return nil, shutdownWith(ctx, teardown, err)
	}
	if !tc.Valid() {
		return nil, shutdownWith(ctx, teardown, fmt.Errorf("locate git: %w", vcs.ErrNoToolchain))
	}

	exe, err := cfg.Executable()
	if err != nil {
		return nil, shutdownWith(ctx, teardown, fmt.Errorf("resolve executable: %w", err))
	}

	srv, err := askpass.Build(askpass.Config{
		Executable: exe,
		Prompter:   cfg.Prompter,
		TempDir:    cfg.TempDir,
		Logger:     logger,
	})
	if err != nil {
		return nil, shutdownWith(ctx, teardown, fmt.Errorf("credential environment: %w", err))
	}
	teardown.Register("askpass server", func(context.Context) error { return srv.Close() })

	g := git.New(tc, logger)
	g.SetEnv(srv.Env())

	if cfg.Output != nil {
		sink := outputlog.NewSink(cfg.Output)
		teardown.RegisterFunc("git output", g.OnOutput(sink.Append))
	}

	logger.Printf("Using git %s from %s", tc.Version, tc.Path)

	gate := &CompatibilityGate{Prefs: store, Prompter: cfg.Prompter, Opener: cfg.Opener}
	if err := gate.CheckVersion(ctx, tc); err != nil {
		logger.Printf("legacy git check: %v", err)
	}

	return &Session{
		Toolchain: tc,
		Git:       g,
		Askpass:   srv,
		Installer: &Installer{
			Git:        g,
			Executable: func() (string, error) { return exe, nil },
			ToolName:   store.ToolName(),
			Notifier:   cfg.Notifier,
			LogPath:    cfg.LogPath,
			Logger:     logger,
		},
		Teardown: teardown,
		logger:   logger,
	}, nil
}

func recoverMissing(ctx context.Context, cfg Config, store *settings.Store) error {
	folders, err := store.Folders()
	if err != nil {
		return err
	}
	r := &Recovery{Prefs: store, Prompter: cfg.Prompter, Opener: cfg.Opener}
	return r.RecoverFromMissingToolchain(ctx, folders)
}

func shutdownWith(ctx context.Context, teardown *lifecycle.Registry, err error) error {
	if terr := teardown.Shutdown(context.WithoutCancel(ctx)); terr != nil {
		return fmt.Errorf("%w (teardown: %v)", err, terr)
	}
	return err
}

// channelWriter adapts a Channel so a *log.Logger can write to it.
type channelWriter struct {
	ch outputlog.Channel
}

func (w channelWriter) Write(p []byte) (int, error) {
	w.ch.AppendLine(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
