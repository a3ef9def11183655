package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/crossjob/internal/config"
	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/alexanderramin/crossjob/internal/service"
	"github.com/alexanderramin/crossjob/internal/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds the services and collaborators CLI commands use.
type App struct {
	Applicants service.ApplicantService
	Profiles   service.ProfileService

	// Schemas resolves DELTA fields for the wizard; nil means no dynamic fields.
	Schemas wizard.SchemaSource
	// Table returns the offline classification table for listings and the
	// visa code picker.
	Table         func() *schema.Table
	SchemaTimeout time.Duration

	Publisher events.Publisher
	Observer  wizard.Observer
	Autosave  wizard.AutosaveConfig

	IsInteractive func() bool
	// RunProgram runs a bubbletea model to completion.
	RunProgram func(m tea.Model) (tea.Model, error)
}

// Setup is called before any subcommand runs, once flags are parsed. It
// fills in the App and returns a cleanup func run after the command.
type Setup func(cmd *cobra.Command, app *App) (func(), error)

// NewRootCmd creates the top-level "crossjob" command. setup may be nil when
// app is already wired.
func NewRootCmd(app *App, setup Setup) *cobra.Command {
	var cleanup func()

	root := &cobra.Command{
		Use:           "crossjob",
		Short:         "Applicant onboarding for cross-border recruitment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if setup == nil {
				return nil
			}
			c, err := setup(cmd, app)
			if err != nil {
				return err
			}
			cleanup = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup != nil {
				cleanup()
			}
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newWizardCmd(app),
		newApplicantCmd(app),
		newStatusCmd(app),
		newSchemaCmd(app),
		newBadgeCmd(app),
	)
	return root
}

func (app *App) table() *schema.Table {
	if app.Table != nil {
		if t := app.Table(); t != nil {
			return t
		}
	}
	return schema.DefaultTable()
}

// newEngine builds an engine wired to the app's schema source and
// telemetry, seeded with the applicant's stored badges.
func (app *App) newEngine(ctx context.Context, applicantID string, opts ...wizard.Option) (*wizard.Engine, error) {
	badges, err := app.Profiles.Badges(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	base := []wizard.Option{
		wizard.WithBadges(badges),
		wizard.WithSchemaTimeout(app.SchemaTimeout),
	}
	if app.Schemas != nil {
		base = append(base, wizard.WithSchemaSource(app.Schemas))
	}
	if app.Observer != nil {
		base = append(base, wizard.WithObserver(app.Observer))
	}
	return wizard.New(append(base, opts...)...), nil
}

// loadEngine hydrates a headless engine from storage and waits for the
// DELTA schema so that scores are settled.
func (app *App) loadEngine(ctx context.Context, applicantID string) (*wizard.Engine, domain.WizardState, error) {
	state, err := app.Profiles.Load(ctx, applicantID)
	if err != nil {
		return nil, domain.WizardState{}, err
	}
	e, err := app.newEngine(ctx, applicantID)
	if err != nil {
		return nil, domain.WizardState{}, err
	}
	e.Hydrate(state)
	e.WaitSchema()
	return e, state, nil
}

func (app *App) publisher() events.Publisher {
	if app.Publisher == nil {
		return events.NoopPublisher{}
	}
	return app.Publisher
}
