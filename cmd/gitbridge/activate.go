package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/bootstrap"
	"github.com/steveyegge/gitbridge/internal/ui"
	"github.com/steveyegge/gitbridge/internal/vcs"
)

var activateCmd = &cobra.Command{
	Use:     "activate",
	GroupID: "session",
	Short:   "Start a git session and keep it running",
	Long: `Activate the git integration and keep it running until interrupted.

Activation waits for git.enabled, locates git (git.path first, then PATH,
then the usual install locations), starts the credential prompt server and
checks the git version. Export the printed variables in another shell to
route that shell's git credential prompts through this session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		return runActivate(ctx, a, nil, cmd.OutOrStdout())
	},
}

// runActivate activates a session, prints its environment to stdout and
// holds it open until ctx ends.
func runActivate(ctx context.Context, a *app, loc bootstrap.Locator, stdout io.Writer) error {
	session, err := bootstrap.Activate(ctx, a.activationConfig(loc))
	if err != nil && !vcs.IsFatal(err) {
		// Missing-git recovery has already prompted, or the prompt was dismissed
		a.logger.Printf("Activation stopped: %v", err)
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	defer session.Close(context.WithoutCancel(ctx))

	tc := session.Git.Toolchain()
	fmt.Fprintf(stdout, "%s Using git %s from %s\n", ui.RenderPass("✓"), tc.Version, tc.Path)
	for _, kv := range vcs.MergeEnv(nil, session.Git.Env()) {
		k, v, _ := strings.Cut(kv, "=")
		fmt.Fprintf(stdout, "export %s=%q\n", k, v)
	}
	fmt.Fprintf(stdout, "%s Output log: %s\n", ui.RenderAccent("→"), a.output.Path())

	<-ctx.Done()
	session.Logger().Printf("Session interrupted; running %d teardown tasks", session.Teardown.Len())
	fmt.Fprintln(stdout, ui.RenderMuted("Shutting down"))
	return nil
}

func init() {
	rootCmd.AddCommand(activateCmd)
}
