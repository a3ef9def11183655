package cli

import (
	"fmt"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/spf13/cobra"
)

func newSchemaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the visa classification table",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List classification codes",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchemaCodes(app.table().Codes()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show CODE",
			Short: "Show the fields of one classification code",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				code, ok := app.table().Lookup(args[0])
				if !ok {
					return fmt.Errorf("%q: %w", args[0], schema.ErrUnknownCode)
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchemaCode(code))
				return nil
			},
		},
	)
	return cmd
}
