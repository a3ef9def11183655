package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/alexanderramin/crossjob/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// errNotInteractive is returned when the wizard is started without a terminal.
var errNotInteractive = errors.New("the wizard needs an interactive terminal")

func newWizardCmd(app *App) *cobra.Command {
	var applicantID, name string

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Fill in an applicant profile step by step",
		Long: `Opens the onboarding wizard. Without --applicant a new applicant is
created first. Changes are saved automatically while you type, and the
wizard resumes at the first incomplete step next time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errNotInteractive
			}
			ctx := cmd.Context()

			var a *domain.Applicant
			var err error
			if applicantID != "" {
				a, err = app.Applicants.GetByID(ctx, applicantID)
			} else {
				if strings.TrimSpace(name) == "" {
					if name, err = askName(); err != nil {
						return err
					}
				}
				a, err = app.Applicants.Create(ctx, name)
			}
			if err != nil {
				return err
			}

			m, err := newWizardModel(ctx, app, a)
			if err != nil {
				return err
			}
			defer m.Close()

			if _, err := app.runProgram(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Progress saved for %s (%s). Resume with: crossjob wizard --applicant %s\n",
				formatter.Bold(a.Name), formatter.RenderProgress(m.engine.Completion().TotalPercent, 10), a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&applicantID, "applicant", "", "Resume an existing applicant")
	cmd.Flags().StringVar(&name, "name", "", "Name for a new applicant")
	return cmd
}

func askName() (string, error) {
	var name string
	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("What is your full name?").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
	)).WithTheme(crossjobHuhTheme()).Run()
	return name, err
}

func (app *App) runProgram(m tea.Model) (tea.Model, error) {
	if app.RunProgram != nil {
		return app.RunProgram(m)
	}
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}
