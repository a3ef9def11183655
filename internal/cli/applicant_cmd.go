package cli

import (
	"fmt"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newApplicantCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applicant",
		Short: "Manage applicants",
	}
	cmd.AddCommand(newApplicantNewCmd(app), newApplicantListCmd(app))
	return cmd
}

func newApplicantNewCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an applicant",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Applicants.Create(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created applicant %s (%s)\n", formatter.Bold(a.Name), a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Applicant name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newApplicantListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applicants and their profile completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Applicants.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApplicants(list))
			return nil
		},
	}
}
