//go:build windows

package git

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

func wellKnownPaths() []string {
	var paths []string

	// Git for Windows records its install location under both hives
	for _, root := range []registry.Key{registry.LOCAL_MACHINE, registry.CURRENT_USER} {
		if dir := installPathFromRegistry(root); dir != "" {
			paths = append(paths, filepath.Join(dir, "cmd", "git.exe"))
		}
	}

	for _, env := range []string{"ProgramW6432", "ProgramFiles", "ProgramFiles(x86)"} {
		if dir := os.Getenv(env); dir != "" {
			paths = append(paths, filepath.Join(dir, "Git", "cmd", "git.exe"))
		}
	}

	if dir := os.Getenv("LocalAppData"); dir != "" {
		paths = append(paths, filepath.Join(dir, "Programs", "Git", "cmd", "git.exe"))
	}

	return paths
}

func installPathFromRegistry(root registry.Key) string {
	key, err := registry.OpenKey(root, `SOFTWARE\GitForWindows`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	dir, _, err := key.GetStringValue("InstallPath")
	if err != nil {
		return ""
	}
	return dir
}
