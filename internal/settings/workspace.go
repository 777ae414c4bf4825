package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/steveyegge/gitbridge/internal/vcs"
)

// WorkspaceFile lists the folders opened by the host.
const WorkspaceFile = ".gitbridge-workspace.yaml"

type workspaceDoc struct {
	Folders []workspaceEntry `yaml:"folders"`
}

type workspaceEntry struct {
	URI  string `yaml:"uri,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// WorkspacePath returns the workspace file location.
func (s *Store) WorkspacePath() string {
	return filepath.Join(s.workDir, WorkspaceFile)
}

// Folders returns the workspace folders. Without a workspace file the
// working directory is the only folder.
func (s *Store) Folders() ([]vcs.WorkspaceFolder, error) {
	data, err := os.ReadFile(s.WorkspacePath())
	if errors.Is(err, fs.ErrNotExist) {
		return []vcs.WorkspaceFolder{vcs.FolderFromPath(s.workDir)}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc workspaceDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.WorkspacePath(), err)
	}

	folders := make([]vcs.WorkspaceFolder, 0, len(doc.Folders))
	for _, e := range doc.Folders {
		switch {
		case e.URI != "":
			f, err := vcs.ParseFolder(e.URI)
			if err != nil {
				return nil, fmt.Errorf("invalid folder uri %q: %w", e.URI, err)
			}
			folders = append(folders, f)
		case strings.TrimSpace(e.Path) != "":
			p := e.Path
			if !filepath.IsAbs(p) {
				p = filepath.Join(s.workDir, p)
			}
			folders = append(folders, vcs.FolderFromPath(p))
		}
	}

	return folders, nil
}
