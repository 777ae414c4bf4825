package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/bootstrap"
)

var installCmd = &cobra.Command{
	Use:     "install",
	GroupID: "setup",
	Short:   "Register gitbridge in the global git configuration",
	Long: `Write gitbridge into ~/.gitconfig as git's editor, difftool or
mergetool. The difftool and mergetool entries are named after the
git.toolName setting (default "gitbridge").

Each step only reports success when every key it writes succeeded; a failed
write stops the remaining ones. Details are written to the output log.`,
}

func installRunner(step func(*bootstrap.Installer, context.Context) bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		session, err := bootstrap.Activate(ctx, a.activationConfig(nil))
		if err != nil {
			return err
		}
		defer session.Close(context.WithoutCancel(ctx))

		if !step(session.Installer, ctx) {
			return &exitError{code: 1}
		}
		return nil
	}
}

var installEditorCmd = &cobra.Command{
	Use:   "editor",
	Short: "Use gitbridge as core.editor",
	Args:  cobra.NoArgs,
	RunE:  installRunner((*bootstrap.Installer).InstallAsEditor),
}

var installDiffToolCmd = &cobra.Command{
	Use:   "difftool",
	Short: "Use gitbridge as diff.tool",
	Args:  cobra.NoArgs,
	RunE:  installRunner((*bootstrap.Installer).InstallAsDiffTool),
}

var installMergeToolCmd = &cobra.Command{
	Use:   "mergetool",
	Short: "Use gitbridge as merge.tool",
	Args:  cobra.NoArgs,
	RunE:  installRunner((*bootstrap.Installer).InstallAsMergeTool),
}

var installAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Install editor, difftool and mergetool in order",
	Args:  cobra.NoArgs,
	RunE:  installRunner((*bootstrap.Installer).InstallAll),
}

func init() {
	installCmd.AddCommand(installEditorCmd, installDiffToolCmd, installMergeToolCmd, installAllCmd)
	rootCmd.AddCommand(installCmd)
}
