package git

import (
	"fmt"

	gitconfig "github.com/go-git/go-git/v5/config"
)

// ToolSettings is the subset of the user's global git configuration that
// the installer writes.
type ToolSettings struct {
	Editor       string
	DiffTool     string
	DiffToolCmd  string
	MergeTool    string
	MergeToolCmd string
}

// ReadGlobalTools loads the global git configuration without invoking git.
func ReadGlobalTools() (ToolSettings, error) {
	cfg, err := gitconfig.LoadConfig(gitconfig.GlobalScope)
	if err != nil {
		return ToolSettings{}, fmt.Errorf("failed to load global git config: %w", err)
	}
	return toolSettingsFrom(cfg), nil
}

func toolSettingsFrom(cfg *gitconfig.Config) ToolSettings {
	raw := cfg.Raw
	s := ToolSettings{
		Editor:    raw.Section("core").Option("editor"),
		DiffTool:  raw.Section("diff").Option("tool"),
		MergeTool: raw.Section("merge").Option("tool"),
	}

	if s.DiffTool != "" {
		s.DiffToolCmd = raw.Section("difftool").Subsection(s.DiffTool).Option("cmd")
	}
	if s.MergeTool != "" {
		s.MergeToolCmd = raw.Section("mergetool").Subsection(s.MergeTool).Option("cmd")
	}

	return s
}
