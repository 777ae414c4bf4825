package settings

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, global, workspace string) *Store {
	t.Helper()

	globalDir := t.TempDir()
	workDir := t.TempDir()
	if global != "" {
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, GlobalFile), []byte(global), 0o644))
	}
	if workspace != "" {
		require.NoError(t, os.WriteFile(filepath.Join(workDir, WorkspaceSettingsFile), []byte(workspace), 0o644))
	}

	s, err := Load(Options{GlobalDir: globalDir, WorkDir: workDir})
	require.NoError(t, err)
	return s
}

func TestDefaults(t *testing.T) {
	s := newTestStore(t, "", "")

	assert.True(t, s.Enabled())
	assert.Empty(t, s.GitPath())
	assert.False(t, s.IgnoreMissingGitWarning())
	assert.False(t, s.IgnoreLegacyWarning())
	assert.Equal(t, "gitbridge", s.ToolName())
	assert.Equal(t, 5, s.Int(KeyLogMaxSize))
	assert.Equal(t, "git.log", filepath.Base(s.LogFile()))
}

func TestWorkspaceOverridesGlobal(t *testing.T) {
	s := newTestStore(t,
		"[git]\nenabled = false\npath = \"/opt/git/bin/git\"\nignoreLegacyWarning = true\n",
		"[git]\nenabled = true\n",
	)

	assert.True(t, s.Enabled())
	assert.Equal(t, "/opt/git/bin/git", s.GitPath())
	assert.True(t, s.IgnoreLegacyWarning())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GITBRIDGE_GIT_PATH", "/env/git")
	s := newTestStore(t, "[git]\npath = \"/file/git\"\n", "")

	assert.Equal(t, "/env/git", s.GitPath())
}

func TestDotEnvLoaded(t *testing.T) {
	const key = "GITBRIDGE_GIT_TOOLNAME"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".env"), []byte(key+"=fromdotenv\n"), 0o644))

	s, err := Load(Options{GlobalDir: t.TempDir(), WorkDir: workDir})
	require.NoError(t, err)
	assert.Equal(t, "fromdotenv", s.ToolName())
}

func TestDismissWritesGlobalOnly(t *testing.T) {
	s := newTestStore(t, "# user file\n[git]\npath = \"/usr/bin/git\"\n\n[editor]\ncommand = \"vim\"\n", "[git]\nenabled = true\n")

	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) { changes = append(changes, c) })
	defer unsubscribe()

	require.NoError(t, s.Dismiss(KeyIgnoreMissing))
	assert.True(t, s.IgnoreMissingGitWarning())

	var doc map[string]any
	_, err := toml.DecodeFile(s.GlobalPath(), &doc)
	require.NoError(t, err)

	git := doc["git"].(map[string]any)
	assert.Equal(t, true, git["ignoreMissingGitWarning"])
	assert.Equal(t, "/usr/bin/git", git["path"])
	assert.Equal(t, "vim", doc["editor"].(map[string]any)["command"])

	ws, err := os.ReadFile(s.WorkspaceSettingsPath())
	require.NoError(t, err)
	assert.Equal(t, "[git]\nenabled = true\n", string(ws))

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Affects(KeyIgnoreMissing))
	assert.True(t, changes[0].Affects("git"))
	assert.False(t, changes[0].Affects(KeyEnabled))
}

func TestDismissCreatesGlobalFile(t *testing.T) {
	s := newTestStore(t, "", "")
	require.NoError(t, os.RemoveAll(filepath.Dir(s.GlobalPath())))

	require.NoError(t, s.Dismiss(KeyIgnoreLegacy))
	assert.True(t, s.IgnoreLegacyWarning())
	assert.FileExists(t, s.GlobalPath())
}

func TestReloadWithoutChangesIsSilent(t *testing.T) {
	s := newTestStore(t, "[log]\nmaxSizeMB = 5\n", "")

	called := false
	s.Subscribe(func(Change) { called = true })

	require.NoError(t, s.Reload())
	assert.False(t, called)
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore(t, "", "")

	calls := 0
	unsubscribe := s.Subscribe(func(Change) { calls++ })
	unsubscribe()
	unsubscribe()

	require.NoError(t, s.Dismiss(KeyIgnoreLegacy))
	assert.Equal(t, 0, calls)
}

func TestChangeAffects(t *testing.T) {
	c := NewChange("git.enabled", "log.maxsizemb")

	assert.True(t, c.Affects("git.enabled"))
	assert.True(t, c.Affects("GIT.Enabled"))
	assert.True(t, c.Affects("git"))
	assert.True(t, c.Affects(KeyLogMaxSize))
	assert.False(t, c.Affects("git.path"))
	assert.False(t, c.Affects("gi"))
	assert.Equal(t, []string{"git.enabled", "log.maxsizemb"}, c.Keys())
}

func TestWatchReloadsOnWrite(t *testing.T) {
	s := newTestStore(t, "[git]\nenabled = false\n", "")

	w, err := s.Watch()
	require.NoError(t, err)
	defer w.Close()

	var mu sync.Mutex
	var got []Change
	s.Subscribe(func(c Change) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
	})

	require.NoError(t, os.WriteFile(s.GlobalPath(), []byte("[git]\nenabled = true\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[0].Affects(KeyEnabled)
	}, 5*time.Second, 20*time.Millisecond)
	assert.True(t, s.Enabled())
}

func TestFolders(t *testing.T) {
	s := newTestStore(t, "", "")

	folders, err := s.Folders()
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.True(t, folders[0].IsFile())

	doc := "folders:\n  - path: sub\n  - uri: vsls://host/share\n  - uri: file:///srv/repo\n"
	require.NoError(t, os.WriteFile(s.WorkspacePath(), []byte(doc), 0o644))

	folders, err = s.Folders()
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, filepath.Join(s.WorkDir(), "sub"), folders[0].FSPath())
	assert.False(t, folders[1].IsFile())
	assert.True(t, folders[2].IsFile())
	assert.Equal(t, filepath.FromSlash("/srv/repo"), folders[2].FSPath())
}
