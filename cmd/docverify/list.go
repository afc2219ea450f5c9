package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/cli"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List documents, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}
			docs, err := session.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderDocumentList(docs))
			return nil
		},
	}
}
