package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"docverify/internal/cli"
	"docverify/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	var (
		formatFlag string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "export <document-id>",
		Short: "Export the fields of a document as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			session, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}
			doc, err := session.Select(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = export.BuildFilename(doc.FileName, format, time.Now())
			}
			view := session.View()
			if err := cli.WriteExportFile(path, format, view); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported "+strconv.Itoa(len(view.Fields))+" fields to "+path))
			return nil
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "output format (csv, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <file-name>_<date>.<format>)")
	return cmd
}
