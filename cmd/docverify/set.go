package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/domain"
)

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <document-id> <field> <value>",
		Short: "Correct one field of a document",
		Long: `Correct one field of a document. The field may be given by name or id.
An empty value ("") clears the field.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd, opts, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := session.Select(ctx, args[0]); err != nil {
				return err
			}

			fieldID := ""
			for _, e := range session.View().Fields {
				if e.FieldName == args[1] || e.ID == args[1] {
					fieldID = e.ID
					break
				}
			}
			if fieldID == "" {
				return fmt.Errorf("%w: %s", domain.ErrFieldNotInLedger, args[1])
			}

			if err := session.Corrections().EditField(fieldID, args[2]); err != nil {
				return err
			}
			_, err = session.Corrections().SaveField(ctx, fieldID)
			return err
		},
	}
}
