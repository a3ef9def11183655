package cli

import (
	"fmt"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var applicantID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-step completion for an applicant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.Applicants.GetByID(ctx, applicantID)
			if err != nil {
				return err
			}
			e, _, err := app.loadEngine(ctx, a.ID)
			if err != nil {
				return err
			}
			defer e.Close()

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCompletion(a, e.Registry(), e.Completion(), e.Badges()))
			return nil
		},
	}
	cmd.Flags().StringVar(&applicantID, "applicant", "", "Applicant ID (required)")
	_ = cmd.MarkFlagRequired("applicant")
	return cmd
}
