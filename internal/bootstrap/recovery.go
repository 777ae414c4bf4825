package bootstrap

import (
	"context"
	"fmt"

	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs"
)

// MissingGitMessage is shown when a repository is open but git is not.
const MissingGitMessage = "Git not found. Install it or configure it using the 'git.path' setting."

// Recovery offers to install git when none could be located.
type Recovery struct {
	Prefs    Preferences
	Prompter ui.Prompter
	Opener   ui.URLOpener
}

// RecoverFromMissingToolchain prompts only when the warning has not been
// dismissed and at least one local folder is a git working tree.
func (r *Recovery) RecoverFromMissingToolchain(ctx context.Context, folders []vcs.WorkspaceFolder) error {
	if r.Prefs.IgnoreMissingGitWarning() {
		return nil
	}
	if len(folders) == 0 {
		return nil
	}
	if !vcs.AnyUnderVersionControl(folders) {
		return nil
	}

	choice, err := r.Prompter.Choose(ctx, MissingGitMessage, ChoiceDownload, ChoiceNeverAgain)
	if err != nil {
		return fmt.Errorf("missing git prompt: %w", err)
	}

	switch choice {
	case ChoiceDownload:
		return r.Opener.OpenURL(ctx, DownloadURL)
	case ChoiceNeverAgain:
		return r.Prefs.Dismiss(settings.KeyIgnoreMissing)
	}
	return nil
}
