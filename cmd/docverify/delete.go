package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/cli"
	"docverify/internal/domain"
	"docverify/internal/port"
)

func newDeleteCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document and its fields",
		Long: `Delete a document and everything recorded about it. This cannot be
undone. You are asked to confirm unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer port.Confirmer = cli.AlwaysConfirm{}
			if !force {
				confirmer = cli.NewPromptConfirmer(cli.NewLineReader(cmd.InOrStdin()), cmd.OutOrStdout())
			}
			session, err := newSession(cmd, opts, confirmer)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			// Populate the cache so the prompt can show the file name.
			_, _ = session.Documents().ListAll(ctx)

			err = session.DeleteDocument(ctx, args[0])
			if errors.Is(err, domain.ErrDeletionCanceled) {
				fmt.Fprintln(cmd.OutOrStdout(), "Operation canceled.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
