package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/spf13/cobra"
)

func newBadgeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badge",
		Short: "Manage verification badges",
	}
	cmd.AddCommand(newBadgeSetCmd(app), newBadgeListCmd(app))
	return cmd
}

func newBadgeSetCmd(app *App) *cobra.Command {
	var applicantID, badge, status string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set an externally verified badge (identity, visa, education)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := domain.Badge{
				ID:     domain.BadgeID(strings.ToLower(strings.TrimSpace(badge))),
				Status: domain.BadgeStatus(strings.ToLower(strings.TrimSpace(status))),
			}
			if err := app.Profiles.SetBadge(cmd.Context(), applicantID, b); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.BadgeIndicator(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&applicantID, "applicant", "", "Applicant ID (required)")
	cmd.Flags().StringVar(&badge, "badge", "", "Badge: identity, visa or education (required)")
	cmd.Flags().StringVar(&status, "status", "", "Status: locked, pending or verified (required)")
	for _, f := range []string{"applicant", "badge", "status"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newBadgeListCmd(app *App) *cobra.Command {
	var applicantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show every badge of an applicant",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, _, err := app.loadEngine(cmd.Context(), applicantID)
			if err != nil {
				return err
			}
			defer e.Close()
			for _, b := range e.Badges() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.BadgeIndicator(b))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&applicantID, "applicant", "", "Applicant ID (required)")
	_ = cmd.MarkFlagRequired("applicant")
	return cmd
}
