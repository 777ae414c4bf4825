package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/bootstrap"
	"github.com/steveyegge/gitbridge/internal/vcs"
)

var gitCmd = &cobra.Command{
	Use:     "git [--] ARGS...",
	GroupID: "session",
	Short:   "Run git inside an activated session",
	Long: `Activate a session, run git with the given arguments and tear the
session down again. Credential prompts from git (and ssh) are answered
through gitbridge's prompts, and the command and its error output are
recorded in the output log.

  gitbridge git -- fetch origin`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && args[0] == "--" {
			args = args[1:]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
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

		err = session.Git.Run(ctx, a.store.WorkDir(), os.Stdin, os.Stdout, os.Stderr, args...)
		if err != nil && vcs.IsExitError(err) {
			return &exitError{code: vcs.GetExitCode(err)}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(gitCmd)
}
