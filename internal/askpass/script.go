package askpass

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

func writeScript(dir, executable string) (string, error) {
	name, body := scriptFor(runtime.GOOS, executable)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(body), 0o700); err != nil {
		return "", fmt.Errorf("failed to write askpass script: %w", err)
	}
	return path, nil
}

func scriptFor(goos, executable string) (name, body string) {
	if goos == "windows" {
		return "askpass.cmd", "@\"" + executable + "\" askpass %*\r\n"
	}
	return "askpass.sh", "#!/bin/sh\nexec " + shellQuote(executable) + " askpass \"$@\"\n"
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
