package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/alexanderramin/crossjob/internal/service"
	"github.com/alexanderramin/crossjob/internal/testutil"
	"github.com/alexanderramin/crossjob/internal/wizard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Kind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// testApp wires a full App backed by an in-memory DB. Schemas is nil, so
// every visa code resolves to no additional fields.
func testApp(t *testing.T) (*App, *recordingPublisher) {
	t.Helper()
	database := testutil.NewTestDB(t)

	applicants := repository.NewSQLiteApplicantRepo(database)
	pub := &recordingPublisher{}
	app := &App{
		Applicants: service.NewApplicantService(applicants),
		Profiles: service.NewProfileService(
			applicants,
			repository.NewSQLiteProfileStepRepo(database),
			repository.NewSQLiteBadgeRepo(database),
			repository.NewSQLiteSubmissionRepo(database),
			testutil.NewTestUoW(database),
			pub,
		),
		SchemaTimeout: time.Second,
		Publisher:     pub,
		// Saves only happen on Flush unless a test says otherwise.
		Autosave:      wizard.AutosaveConfig{Debounce: time.Hour, SavedRevert: time.Hour},
		IsInteractive: func() bool { return true },
		RunProgram:    func(m tea.Model) (tea.Model, error) { return m, nil },
	}
	return app, pub
}

func seedApplicant(t *testing.T, app *App, name string) *domain.Applicant {
	t.Helper()
	a, err := app.Applicants.Create(context.Background(), name)
	require.NoError(t, err)
	return a
}

// seedState stores every step of state for id.
func seedState(t *testing.T, app *App, id string, state domain.WizardState) {
	t.Helper()
	p := app.Profiles.Persister(id)
	for _, step := range domain.StepOrder {
		slot, err := state.Slot(step)
		require.NoError(t, err)
		require.NoError(t, p.Save(context.Background(), step, slot))
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app, nil)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestApplicantCmd_NewAndList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "applicant", "new", "--name", "  Ana Reyes ")
	require.NoError(t, err)
	assert.Contains(t, out, "Created applicant Ana Reyes")

	out, err = executeCmd(t, app, "applicant", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Reyes")
	assert.Contains(t, out, "in progress")
}

func TestApplicantCmd_ListEmpty(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "applicant", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No applicants yet")
}

func TestApplicantCmd_RequiresName(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "applicant", "new")
	require.Error(t, err)

	_, err = executeCmd(t, app, "applicant", "new", "--name", "   ")
	assert.ErrorIs(t, err, service.ErrNameRequired)
}

func TestStatusCmd_PartialProfile(t *testing.T) {
	app, _ := testApp(t)
	a := seedApplicant(t, app, "Ana")

	state := domain.WizardState{Residency: domain.ResidencyStep{Category: domain.ResidencyOverseas}}
	seedState(t, app, a.ID, state)

	out, err := executeCmd(t, app, "status", "--applicant", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Residency")
	// Documents only apply to domestic applicants.
	assert.Contains(t, out, "not applicable")
	assert.NotContains(t, out, "Submitted")
}

func TestStatusCmd_CompleteProfile(t *testing.T) {
	app, _ := testApp(t)
	a := seedApplicant(t, app, "Ana")
	seedState(t, app, a.ID, testutil.DomesticState())

	out, err := executeCmd(t, app, "status", "--applicant", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "profile verified")
}

func TestStatusCmd_UnknownApplicant(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "status", "--applicant", "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSchemaCmd_List(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "schema", "list")
	require.NoError(t, err)
	for _, code := range []string{"E-9", "E-7", "D-2", "F-6"} {
		assert.Contains(t, out, code)
	}
}

func TestSchemaCmd_Show(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "schema", "show", "E-9")
	require.NoError(t, err)
	assert.Contains(t, out, "employerName")
	assert.Contains(t, out, "manufacturing")

	out, err = executeCmd(t, app, "schema", "show", "F-4")
	require.NoError(t, err)
	assert.Contains(t, out, "No additional fields.")
}

func TestSchemaCmd_ShowUnknownCode(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "schema", "show", "Z-99")
	assert.ErrorIs(t, err, schema.ErrUnknownCode)
}

func TestSchemaCmd_UsesAppTable(t *testing.T) {
	app, _ := testApp(t)
	custom, err := schema.ParseTable([]byte("codes:\n  X-1:\n    title: Custom\n    fields: []\n"))
	require.NoError(t, err)
	app.Table = func() *schema.Table { return custom }

	out, err := executeCmd(t, app, "schema", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "X-1")
	assert.NotContains(t, out, "E-9")
}

func TestBadgeCmd_SetAndList(t *testing.T) {
	app, _ := testApp(t)
	a := seedApplicant(t, app, "Ana")

	out, err := executeCmd(t, app, "badge", "set", "--applicant", a.ID, "--badge", " Visa ", "--status", "VERIFIED")
	require.NoError(t, err)
	assert.Contains(t, out, "visa verified")

	out, err = executeCmd(t, app, "badge", "list", "--applicant", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "visa verified")
	assert.Contains(t, out, "identity locked")
	assert.Contains(t, out, "profile locked")
}

func TestBadgeCmd_SetRejections(t *testing.T) {
	app, _ := testApp(t)
	a := seedApplicant(t, app, "Ana")

	tests := []struct {
		name   string
		badge  string
		status string
		want   error
	}{
		{"profile badge is derived", "profile", "verified", wizard.ErrBadgeNotExternal},
		{"unknown badge", "passport", "verified", domain.ErrInvalidBadge},
		{"unknown status", "visa", "approved", domain.ErrInvalidBadge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, "badge", "set", "--applicant", a.ID, "--badge", tt.badge, "--status", tt.status)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWizardCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, app, "wizard", "--name", "Ana")
	assert.ErrorIs(t, err, errNotInteractive)
}

func TestWizardCmd_CreatesApplicant(t *testing.T) {
	app, _ := testApp(t)
	var ran *wizardModel
	app.RunProgram = func(m tea.Model) (tea.Model, error) {
		ran = m.(*wizardModel)
		return m, nil
	}

	out, err := executeCmd(t, app, "wizard", "--name", "Ana Reyes")
	require.NoError(t, err)
	require.NotNil(t, ran)
	assert.Equal(t, "Ana Reyes", ran.applicant.Name)
	assert.Contains(t, out, "Progress saved for Ana Reyes")
	assert.Contains(t, out, "--applicant "+ran.applicant.ID)

	list, err := app.Applicants.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestWizardCmd_ResumesApplicant(t *testing.T) {
	app, _ := testApp(t)
	a := seedApplicant(t, app, "Ana")
	seedState(t, app, a.ID, domain.WizardState{Residency: domain.ResidencyStep{Category: domain.ResidencyDomestic}})

	var loc wizard.Location
	app.RunProgram = func(m tea.Model) (tea.Model, error) {
		loc = m.(*wizardModel).engine.Location()
		return m, nil
	}

	_, err := executeCmd(t, app, "wizard", "--applicant", a.ID)
	require.NoError(t, err)
	// Residency is done, so the session resumes at Personal Details.
	assert.Equal(t, 1, loc.Index)
	assert.False(t, loc.Review)
}

func TestWizardCmd_UnknownApplicant(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "wizard", "--applicant", "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
