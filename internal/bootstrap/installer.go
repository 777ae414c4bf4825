package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/steveyegge/gitbridge/internal/ui"
)

// ConfigSetter writes one global git configuration key.
type ConfigSetter interface {
	SetGlobalConfig(ctx context.Context, key, value string) bool
}

// Installer configures git to call back into gitbridge.
type Installer struct {
	// Git performs the configuration writes
	Git ConfigSetter

	// Executable resolves the gitbridge binary git should run
	Executable func() (string, error)

	// ToolName names the difftool and mergetool entries
	ToolName string

	// Notifier reports the outcome of each top-level operation
	Notifier ui.Notifier

	// LogPath is where failure details can be found
	LogPath string

	// Logger writes failure details to LogPath. Nil discards.
	Logger *log.Logger
}

// ExecutablePath returns the running binary with symlinks resolved.
func ExecutablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return exe, nil
}

// InstallAsEditor sets core.editor.
func (in *Installer) InstallAsEditor(ctx context.Context) bool {
	return in.run(ctx, "git editor", in.asEditor)
}

// InstallAsDiffTool sets diff.tool and its command.
func (in *Installer) InstallAsDiffTool(ctx context.Context) bool {
	return in.run(ctx, "git difftool", in.asDiffTool)
}

// InstallAsMergeTool sets merge.tool and its command.
func (in *Installer) InstallAsMergeTool(ctx context.Context) bool {
	return in.run(ctx, "git mergetool", in.asMergeTool)
}

// InstallAll runs the editor, difftool and mergetool steps in order and
// stops at the first failure.
func (in *Installer) InstallAll(ctx context.Context) bool {
	return in.run(ctx, "git editor, difftool and mergetool", func(ctx context.Context, exe string) bool {
		return in.asEditor(ctx, exe) &&
			in.asDiffTool(ctx, exe) &&
			in.asMergeTool(ctx, exe)
	})
}

// run resolves the executable once and reports the outcome.
func (in *Installer) run(ctx context.Context, what string, step func(ctx context.Context, exe string) bool) bool {
	ok := false
	if exe, err := in.executable(); err != nil {
		in.logf("Failed to resolve the gitbridge executable: %v", err)
	} else {
		ok = step(ctx, exe)
	}

	if in.Notifier != nil {
		if ok {
			in.Notifier.Info(fmt.Sprintf("Configured %s as %s.", in.toolName(), what))
		} else {
			in.Notifier.Error(fmt.Sprintf("Failed to configure %s as %s. See %s for details.", in.toolName(), what, in.LogPath))
		}
	}
	return ok
}

func (in *Installer) executable() (string, error) {
	if in.Executable != nil {
		return in.Executable()
	}
	return ExecutablePath()
}

func (in *Installer) logf(format string, args ...any) {
	if in.Logger != nil {
		in.Logger.Printf(format, args...)
	}
}

func (in *Installer) toolName() string {
	if in.ToolName == "" {
		return "gitbridge"
	}
	return in.ToolName
}

func (in *Installer) asEditor(ctx context.Context, exe string) bool {
	return in.Git.SetGlobalConfig(ctx, "core.editor", EditorCommand(exe))
}

func (in *Installer) asDiffTool(ctx context.Context, exe string) bool {
	tool := in.toolName()
	return in.Git.SetGlobalConfig(ctx, "diff.tool", tool) &&
		in.Git.SetGlobalConfig(ctx, "difftool."+tool+".cmd", DiffToolCommand(exe))
}

func (in *Installer) asMergeTool(ctx context.Context, exe string) bool {
	tool := in.toolName()
	return in.Git.SetGlobalConfig(ctx, "merge.tool", tool) &&
		in.Git.SetGlobalConfig(ctx, "mergetool."+tool+".cmd", MergeToolCommand(exe))
}

// EditorCommand is the core.editor value for exe.
func EditorCommand(exe string) string {
	return quote(exe) + " open --wait"
}

// DiffToolCommand is the difftool.<tool>.cmd value for exe.
func DiffToolCommand(exe string) string {
	return quote(exe) + ` open --wait --diff "$LOCAL" "$REMOTE"`
}

// MergeToolCommand is the mergetool.<tool>.cmd value for exe.
func MergeToolCommand(exe string) string {
	return quote(exe) + ` open --wait "$MERGED"`
}

func quote(exe string) string {
	return `"` + exe + `"`
}
