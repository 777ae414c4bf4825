// Package settings provides layered configuration for gitbridge.
//
// Values are resolved, highest precedence first, from GITBRIDGE_* environment
// variables (a .env file in the working directory is loaded first), the
// workspace file .gitbridge.toml, the global file settings.toml in the user
// config directory, and built-in defaults. Writes only ever target the global
// file.
package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Setting keys.
const (
	KeyEnabled       = "git.enabled"
	KeyPath          = "git.path"
	KeyIgnoreMissing = "git.ignoreMissingGitWarning"
	KeyIgnoreLegacy  = "git.ignoreLegacyWarning"
	KeyToolName      = "git.toolName"

	KeyEditorCommand = "editor.command"
	KeyDiffCommand   = "editor.diffCommand"

	KeyLogFile       = "log.file"
	KeyLogMaxSize    = "log.maxSizeMB"
	KeyLogMaxBackups = "log.maxBackups"
)

const (
	// GlobalFile is the settings file name inside the global config dir
	GlobalFile = "settings.toml"

	// WorkspaceSettingsFile overrides global values for one working directory
	WorkspaceSettingsFile = ".gitbridge.toml"

	envPrefix = "GITBRIDGE"
)

var watchedKeys = []string{
	KeyEnabled,
	KeyPath,
	KeyIgnoreMissing,
	KeyIgnoreLegacy,
	KeyToolName,
	KeyEditorCommand,
	KeyDiffCommand,
	KeyLogFile,
	KeyLogMaxSize,
	KeyLogMaxBackups,
}

// Options locates the settings files.
type Options struct {
	// GlobalDir holds settings.toml. Defaults to <UserConfigDir>/gitbridge.
	GlobalDir string

	// WorkDir holds .gitbridge.toml, .env and the workspace file.
	// Defaults to the current directory.
	WorkDir string

	// Logger for reload and watch activity
	Logger *log.Logger
}

// Store is a live view of the merged settings.
type Store struct {
	globalDir string
	workDir   string
	logger    *log.Logger

	mu       sync.RWMutex
	v        *viper.Viper
	snapshot map[string]any

	subsMu sync.Mutex
	subs   map[int]func(Change)
	nextID int

	reloadMu sync.Mutex
	writeMu  sync.Mutex
}

// DefaultGlobalDir returns the per-user settings directory.
func DefaultGlobalDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gitbridge"), nil
}

// Load reads every settings layer.
func Load(opts Options) (*Store, error) {
	if opts.GlobalDir == "" {
		dir, err := DefaultGlobalDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		opts.GlobalDir = dir
	}
	if opts.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working dir: %w", err)
		}
		opts.WorkDir = wd
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	envFile := filepath.Join(opts.WorkDir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	s := &Store{
		globalDir: opts.GlobalDir,
		workDir:   opts.WorkDir,
		logger:    opts.Logger,
		subs:      make(map[int]func(Change)),
	}

	v, err := s.build()
	if err != nil {
		return nil, err
	}
	s.v = v
	s.snapshot = snapshotOf(v)

	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnabled, true)
	v.SetDefault(KeyPath, "")
	v.SetDefault(KeyIgnoreMissing, false)
	v.SetDefault(KeyIgnoreLegacy, false)
	v.SetDefault(KeyToolName, "gitbridge")
	v.SetDefault(KeyEditorCommand, "")
	v.SetDefault(KeyDiffCommand, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSize, 5)
	v.SetDefault(KeyLogMaxBackups, 3)
}

func (s *Store) build() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("toml")

	if path := s.GlobalPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if path := s.WorkspaceSettingsPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return v, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func snapshotOf(v *viper.Viper) map[string]any {
	snap := make(map[string]any, len(watchedKeys))
	for _, k := range watchedKeys {
		snap[strings.ToLower(k)] = v.Get(k)
	}
	return snap
}

// GlobalPath returns the global settings file.
func (s *Store) GlobalPath() string {
	return filepath.Join(s.globalDir, GlobalFile)
}

// WorkspaceSettingsPath returns the workspace settings file.
func (s *Store) WorkspaceSettingsPath() string {
	return filepath.Join(s.workDir, WorkspaceSettingsFile)
}

// WorkDir returns the directory workspace files are read from.
func (s *Store) WorkDir() string {
	return s.workDir
}

// Bool returns a boolean setting.
func (s *Store) Bool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

// String returns a string setting.
func (s *Store) String(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(key)
}

// Int returns an integer setting.
func (s *Store) Int(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(key)
}

// Enabled reports git.enabled.
func (s *Store) Enabled() bool { return s.Bool(KeyEnabled) }

// GitPath reports git.path.
func (s *Store) GitPath() string { return s.String(KeyPath) }

// IgnoreMissingGitWarning reports git.ignoreMissingGitWarning.
func (s *Store) IgnoreMissingGitWarning() bool { return s.Bool(KeyIgnoreMissing) }

// IgnoreLegacyWarning reports git.ignoreLegacyWarning.
func (s *Store) IgnoreLegacyWarning() bool { return s.Bool(KeyIgnoreLegacy) }

// ToolName reports git.toolName.
func (s *Store) ToolName() string { return s.String(KeyToolName) }

// LogFile returns log.file, defaulting to git.log in the user state dir.
func (s *Store) LogFile() string {
	if p := s.String(KeyLogFile); p != "" {
		return p
	}
	return filepath.Join(defaultStateDir(), "gitbridge", "git.log")
}

func defaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return os.TempDir()
}

// Reload re-reads every layer and notifies subscribers about the keys whose
// values changed.
func (s *Store) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	v, err := s.build()
	if err != nil {
		return err
	}
	next := snapshotOf(v)

	s.mu.Lock()
	prev := s.snapshot
	s.v = v
	s.snapshot = next
	s.mu.Unlock()

	var changed []string
	for k, val := range next {
		if fmt.Sprint(prev[k]) != fmt.Sprint(val) {
			changed = append(changed, k)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	sort.Strings(changed)

	s.logger.Printf("settings changed: %s", strings.Join(changed, ", "))
	s.publish(NewChange(changed...))
	return nil
}

// Dismiss persists key=true in the global settings file. Dismissal flags
// are never written as false.
func (s *Store) Dismiss(key string) error {
	if err := s.writeGlobal(key, true); err != nil {
		return err
	}
	return s.Reload()
}

// writeGlobal rewrites only the global file, preserving its other content.
func (s *Store) writeGlobal(key string, value any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	path := s.GlobalPath()
	doc := make(map[string]any)

	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	setNested(doc, strings.Split(key, "."), value)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), GlobalFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func setNested(doc map[string]any, parts []string, value any) {
	for _, p := range parts[:len(parts)-1] {
		child, ok := doc[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			doc[p] = child
		}
		doc = child
	}
	doc[parts[len(parts)-1]] = value
}
