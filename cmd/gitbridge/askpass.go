package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/gitbridge/internal/askpass"
)

var askpassCmd = &cobra.Command{
	Use:    "askpass PROMPT",
	Short:  "Answer a git credential prompt (invoked by git)",
	Hidden: true,
	Args:   cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		handle := os.Getenv(askpass.EnvHandle)
		if handle == "" {
			return fmt.Errorf("%s is not set; run git through `gitbridge git`", askpass.EnvHandle)
		}

		answer, err := askpass.Ask(cmd.Context(), handle, strings.Join(args, " "))
		if errors.Is(err, askpass.ErrCancelled) {
			return &exitError{code: 1}
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askpassCmd)
}
