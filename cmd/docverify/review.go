package main

import (
	"github.com/spf13/cobra"

	"docverify/internal/cli"
)

func newReviewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review shell",
		Long: `Start an interactive shell to browse documents, upload new ones, and
edit, save or discard field corrections. Type help inside the shell for
the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := cli.NewLineReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()
			session, err := newSession(cmd, opts, cli.NewPromptConfirmer(in, out))
			if err != nil {
				return err
			}
			return cli.NewShell(session, in, out).Run(cmd.Context())
		},
	}
}
