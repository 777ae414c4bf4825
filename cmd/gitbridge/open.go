package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/vcs"
)

var (
	openWait bool
	openDiff bool
)

var openCmd = &cobra.Command{
	Use:     "open [--wait] [--diff LOCAL REMOTE | FILE...]",
	GroupID: "setup",
	Short:   "Open files for git (editor, difftool and mergetool entry point)",
	Long: `Open files on behalf of git. This is the command gitbridge installs as
core.editor, difftool.<tool>.cmd and mergetool.<tool>.cmd.

Files open in editor.command, $VISUAL or $EDITOR. With --diff, the two files
are compared with editor.diffCommand (default "diff -u").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		var argv []string
		if openDiff {
			if len(args) != 2 {
				return fmt.Errorf("--diff takes exactly two files, got %d", len(args))
			}
			argv = append(diffCommand(a.store), args...)
		} else {
			if len(args) == 0 {
				return errors.New("no files to open")
			}
			argv = append(editorCommand(a.store), args...)
		}

		a.logger.Printf("open: %s", strings.Join(argv, " "))

		c := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		if !openWait {
			return c.Start()
		}

		err = c.Run()
		// diff exits 1 when the files differ
		if openDiff && vcs.GetExitCode(err) == 1 {
			return nil
		}
		if err != nil && vcs.IsExitError(err) {
			return &exitError{code: vcs.GetExitCode(err)}
		}
		return err
	},
}

func editorCommand(store *settings.Store) []string {
	for _, candidate := range []string{
		store.String(settings.KeyEditorCommand),
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
	} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}

func diffCommand(store *settings.Store) []string {
	if fields := strings.Fields(store.String(settings.KeyDiffCommand)); len(fields) > 0 {
		return fields
	}
	return []string{"diff", "-u"}
}

func init() {
	openCmd.Flags().BoolVar(&openWait, "wait", false, "Wait for the editor to exit")
	openCmd.Flags().BoolVar(&openDiff, "diff", false, "Compare two files")
	rootCmd.AddCommand(openCmd)
}
