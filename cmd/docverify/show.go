package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/cli"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}
			if _, err := session.Select(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderDocument(session.View()))
			return nil
		},
	}
}
