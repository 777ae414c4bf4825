package git

import (
	"context"
	"os"
	"time"

	"github.com/steveyegge/gitbridge/internal/vcs"
)

const configWriteTimeout = 30 * time.Second

// WriteGlobalConfig runs `git config --global <key> <value>` and reports
// the outcome. Failures are logged, never returned.
func (g *Git) WriteGlobalConfig(ctx context.Context, key, value string) vcs.ConfigKeyResult {
	ctx, cancel := context.WithTimeout(ctx, configWriteTimeout)
	defer cancel()

	_, err := g.Exec(ctx, configWorkDir(), "config", "--global", key, value)
	if err != nil {
		werr := &vcs.ConfigWriteError{Key: key, ExitCode: vcs.GetExitCode(err), Err: err}
		g.logger.Printf("%v", werr)
		return vcs.ConfigKeyResult{Key: key, Diagnostic: werr.Error()}
	}

	return vcs.ConfigKeyResult{Key: key, Succeeded: true}
}

// SetGlobalConfig is WriteGlobalConfig reduced to success or failure.
func (g *Git) SetGlobalConfig(ctx context.Context, key, value string) bool {
	return g.WriteGlobalConfig(ctx, key, value).Succeeded
}

// configWorkDir is a directory that always exists and is not inside a
// repository the user is editing.
func configWorkDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		if info, err := os.Stat(home); err == nil && info.IsDir() {
			return home
		}
	}
	return os.TempDir()
}
