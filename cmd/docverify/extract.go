package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docverify/internal/cli"
)

func newExtractCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Upload a PNG, JPG or PDF file and extract its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			session, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}
			if _, err := session.Extraction().Stage(filepath.Base(args[0]), data); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = cli.WithSpinner(out, "Extracting fields...", func() error {
				_, err := session.Extraction().Extract(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.RenderDocument(session.View()))
			return nil
		},
	}
}
