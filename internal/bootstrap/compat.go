package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs"
)

// DownloadURL is where users are sent to install or update git.
const DownloadURL = "https://git-scm.com/"

// Prompt choices.
const (
	ChoiceUpdate     = "Update Git"
	ChoiceDownload   = "Download Git"
	ChoiceNeverAgain = "Don't Show Again"
)

// Preferences is the settings view the gates read and write.
type Preferences interface {
	IgnoreLegacyWarning() bool
	IgnoreMissingGitWarning() bool
	Dismiss(key string) error
}

// IsLegacy reports whether version belongs to git 0.x or 1.x. Only the
// first character is inspected, so "10.0" and "19.1" count as legacy too.
func IsLegacy(version string) bool {
	return strings.HasPrefix(version, "0") || strings.HasPrefix(version, "1")
}

// CompatibilityGate warns about old git versions.
type CompatibilityGate struct {
	Prefs    Preferences
	Prompter ui.Prompter
	Opener   ui.URLOpener
}

// CheckVersion prompts once per call when tc is a legacy version and the
// warning has not been dismissed for good.
func (g *CompatibilityGate) CheckVersion(ctx context.Context, tc vcs.Toolchain) error {
	if g.Prefs.IgnoreLegacyWarning() {
		return nil
	}
	if !IsLegacy(tc.Version) {
		return nil
	}

	msg := fmt.Sprintf("You seem to have git %s installed. gitbridge works best with git >= 2", tc.Version)
	choice, err := g.Prompter.Choose(ctx, msg, ChoiceUpdate, ChoiceNeverAgain)
	if err != nil {
		return fmt.Errorf("legacy git prompt: %w", err)
	}

	switch choice {
	case ChoiceUpdate:
		return g.Opener.OpenURL(ctx, DownloadURL)
	case ChoiceNeverAgain:
		return g.Prefs.Dismiss(settings.KeyIgnoreLegacy)
	}
	return nil
}
