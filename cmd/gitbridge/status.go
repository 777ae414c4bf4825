package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/steveyegge/gitbridge/internal/bootstrap"
	"github.com/steveyegge/gitbridge/internal/settings"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs"
	"github.com/steveyegge/gitbridge/internal/vcs/git"
)

// recommendedVersion is the oldest git that is not flagged as legacy.
const recommendedVersion = "v2.0.0"

var semverPrefix = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "setup",
	Short:   "Show the located git and what gitbridge has installed",
	Long: `Report which git binary activation would use, whether its version is
considered legacy, and the editor, difftool and mergetool currently set in
the global git configuration. Status never prompts and never writes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("\n%s gitbridge status\n\n", ui.RenderAccent("●"))
		fmt.Printf("  Enabled:   %v\n", a.store.Enabled())
		fmt.Printf("  Settings:  %s\n", a.store.GlobalPath())
		fmt.Printf("  Log:       %s\n", a.output.Path())
		if a.terminal.Interactive() {
			fmt.Printf("  Prompts:   interactive\n")
		} else {
			fmt.Printf("  Prompts:   %s\n", ui.RenderMuted("disabled (stdin is not a terminal)"))
		}

		if root, err := vcs.FindRepoRoot(a.store.WorkDir()); err == nil {
			fmt.Printf("  Repo:      %s\n", root)
		} else {
			fmt.Printf("  Repo:      %s\n", ui.RenderMuted("not in a git working tree"))
		}

		fmt.Println()
		tc, err := git.NewLocator().Locate(cmd.Context(), a.store.GitPath(), nil)
		switch {
		case vcs.IsNotFound(err):
			fmt.Printf("%s %v\n", ui.RenderWarn("⚠"), err)
			if !vcs.IsGitAvailable() {
				fmt.Printf("  Download git from %s\n", bootstrap.DownloadURL)
			}
		case err != nil:
			return err
		default:
			fmt.Printf("%s git %s at %s\n", ui.RenderPass("✓"), tc.Version, tc.Path)
			fmt.Printf("  %s\n", versionAdvice(tc.Version))
		}

		fmt.Println()
		tools, err := git.ReadGlobalTools()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderWarn("⚠"), err)
			return nil
		}
		printSetting("core.editor", tools.Editor)
		printSetting("diff.tool", tools.DiffTool)
		if tools.DiffTool != "" {
			printSetting("difftool."+tools.DiffTool+".cmd", tools.DiffToolCmd)
		}
		printSetting("merge.tool", tools.MergeTool)
		if tools.MergeTool != "" {
			printSetting("mergetool."+tools.MergeTool+".cmd", tools.MergeToolCmd)
		}
		if tools.DiffTool == a.store.String(settings.KeyToolName) {
			fmt.Printf("\n  %s\n", ui.RenderMuted("gitbridge is the configured difftool"))
		}
		return nil
	},
}

// versionAdvice compares version against recommendedVersion.
func versionAdvice(version string) string {
	if bootstrap.IsLegacy(version) {
		return ui.RenderWarn(fmt.Sprintf("legacy version; gitbridge works best with git >= %s", recommendedVersion[1:]))
	}

	sv := "v" + semverPrefix.FindString(version)
	if !semver.IsValid(sv) {
		return ui.RenderMuted("version could not be compared")
	}
	if semver.Compare(sv, recommendedVersion) < 0 {
		return ui.RenderWarn("older than " + recommendedVersion[1:])
	}
	return ui.RenderPass("supported")
}

func printSetting(key, value string) {
	if value == "" {
		value = ui.RenderMuted("(unset)")
	}
	fmt.Printf("  %-28s %s\n", key, value)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
