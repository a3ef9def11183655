package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/service"
	"github.com/alexanderramin/crossjob/internal/wizard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth   = 34
	flushTimeout   = 3 * time.Second
	eventQueueSize = 64
)

// engineEventMsg wakes the model after the engine changed state on another
// goroutine (schema loads, autosave status).
type engineEventMsg wizard.Event

// wizardModel hosts one applicant's onboarding session. The engine owns all
// state; the model only renders it and forwards input through step forms.
type wizardModel struct {
	app       *App
	engine    *wizard.Engine
	applicant *domain.Applicant
	persister *service.StepPersister

	current stepForm
	loc     wizard.Location
	errs    wizard.ValidationErrors
	notice  string

	events      chan wizard.Event
	unsubscribe func()

	// prompt is raised by the engine's one-time completion side effect.
	prompt        *atomic.Bool
	promptVisible bool
	accepted      bool

	submitted *domain.Submission
	keys      wizardKeys
	help      help.Model
	width     int
	height    int
	quitting  bool
}

// newWizardModel loads the applicant's saved profile and starts a session.
func newWizardModel(ctx context.Context, app *App, a *domain.Applicant) (*wizardModel, error) {
	state, err := app.Profiles.Load(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	m := &wizardModel{
		app:       app,
		applicant: a,
		persister: app.Profiles.Persister(a.ID),
		events:    make(chan wizard.Event, eventQueueSize),
		prompt:    new(atomic.Bool),
		keys:      defaultWizardKeys(),
		help:      help.New(),
	}

	pub := app.publisher()
	applicantID := a.ID
	e, err := app.newEngine(ctx, a.ID,
		wizard.WithAutosave(m.persister, app.Autosave),
		wizard.WithPrompt(func() {
			m.prompt.Store(true)
			go func() {
				_ = pub.Publish(context.Background(), events.Event{
					Kind:         events.KindProfileCompleted,
					ApplicantID:  applicantID,
					TotalPercent: 100,
				})
			}()
		}),
	)
	if err != nil {
		return nil, err
	}
	m.engine = e
	m.persister.TrackProgress(func() int { return e.Completion().TotalPercent })
	m.unsubscribe = e.Subscribe(func(ev wizard.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})

	e.Hydrate(state)
	m.sync()
	return m, nil
}

func (m *wizardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForEvent()}
	if m.current.form != nil {
		cmds = append(cmds, m.current.form.Init())
	}
	return tea.Batch(cmds...)
}

func (m *wizardModel) waitForEvent() tea.Cmd {
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return engineEventMsg(ev)
	}
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		// The session is flushed; nothing may reach the engine anymore.
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case engineEventMsg:
		return m, tea.Batch(m.sync(), m.waitForEvent())

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (key.Matches(msg, m.keys.Quit) && !m.promptVisible) {
			return m, m.quit()
		}
		if m.promptVisible {
			return m, m.updatePrompt(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, m.updateForm(msg)
}

// handleKey runs the wizard-level bindings; unhandled keys go to the form.
func (m *wizardModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.next(), true
	case key.Matches(msg, m.keys.Prev):
		m.clearMessages()
		if !m.engine.Prev() {
			m.notice = "This is the first step."
		}
		return m.sync(), true
	case key.Matches(msg, m.keys.Review):
		m.clearMessages()
		if !m.engine.Review() {
			m.notice = "Complete every step to open the review."
		}
		return m.sync(), true
	}

	if m.loc.Review {
		switch {
		case key.Matches(msg, m.keys.Jump):
			m.clearMessages()
			n, _ := strconv.Atoi(msg.String())
			if !m.engine.JumpTo(n - 1) {
				m.notice = fmt.Sprintf("Step %d cannot be opened.", n)
			}
			return m.sync(), true
		case key.Matches(msg, m.keys.Submit):
			m.submit()
			return nil, true
		}
		return nil, true
	}

	switch {
	case key.Matches(msg, m.keys.AddEntry):
		return m.changeEntries(true), true
	case key.Matches(msg, m.keys.RemoveEntry):
		return m.changeEntries(false), true
	}
	return nil, false
}

func (m *wizardModel) updateForm(msg tea.Msg) tea.Cmd {
	if m.current.form == nil || m.loc.Review {
		return nil
	}
	model, cmd := m.current.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.current.form = f
	}
	if m.current.commit != nil {
		m.current.commit(m.engine)
	}
	if m.current.form.State == huh.StateCompleted {
		// Leaving the last field acts like next; the form is rebuilt either way.
		m.current.key = ""
		return m.next()
	}
	return tea.Batch(cmd, m.sync())
}

func (m *wizardModel) next() tea.Cmd {
	m.clearMessages()
	res := m.engine.Next()
	if !res.Moved && len(res.Errors) > 0 {
		m.errs = res.Errors
	}
	return m.sync()
}

// changeEntries adds or removes the last entry of a repeatable step.
func (m *wizardModel) changeEntries(add bool) tea.Cmd {
	def, ok := m.engine.CurrentStep()
	if !ok {
		return nil
	}
	m.clearMessages()
	switch def.ID {
	case domain.StepEducation:
		wizard.Update(m.engine, func(s *domain.EducationStep) {
			if add {
				s.AddEntry()
			} else {
				s.RemoveEntry(len(s.Entries) - 1)
			}
		})
	case domain.StepExperience:
		wizard.Update(m.engine, func(s *domain.ExperienceStep) {
			if add {
				s.AddEntry()
			} else {
				s.RemoveEntry(len(s.Entries) - 1)
			}
		})
	default:
		m.notice = "This step has no entries."
	}
	return m.sync()
}

func (m *wizardModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.accepted = true
		m.promptVisible = false
		m.notice = "Employers can now send you job proposals."
	case "n", "esc":
		m.promptVisible = false
	}
	return nil
}

func (m *wizardModel) submit() {
	if m.submitted != nil {
		m.notice = "This profile has already been submitted."
		return
	}
	c := m.engine.Completion()
	if c.TotalPercent < 100 {
		m.notice = "Complete every step before submitting."
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	_ = m.engine.Flush(ctx)

	sub, err := m.app.Profiles.Submit(ctx, m.applicant.ID, m.engine.Snapshot(), c)
	if err != nil {
		m.notice = formatter.Error("Submit failed: " + err.Error())
		return
	}
	m.submitted = sub
	m.notice = "Profile submitted."
}

// quit flushes pending changes so nothing typed is lost, then exits.
func (m *wizardModel) quit() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	_ = m.engine.Flush(ctx)
	m.quitting = true
	return tea.Quit
}

// Close releases the engine. The caller runs it after the program exits.
func (m *wizardModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.engine.Close()
}

func (m *wizardModel) clearMessages() {
	m.errs = nil
	m.notice = ""
}

// sync reconciles the model with the engine: it raises the completion
// prompt and rebuilds the form when the location or form shape changed.
func (m *wizardModel) sync() tea.Cmd {
	if m.prompt.CompareAndSwap(true, false) {
		m.promptVisible = true
	}

	loc := m.engine.Location()
	if loc.Review {
		m.loc = loc
		m.current = stepForm{}
		return nil
	}
	def, ok := m.engine.CurrentStep()
	if !ok {
		return nil
	}
	wantKey := formKey(def.ID, m.engine.Snapshot())
	if loc == m.loc && m.current.step == def.ID && m.current.key == wantKey {
		return nil
	}
	if loc != m.loc {
		m.errs = nil
	}
	m.loc = loc
	m.current = buildStepForm(m.engine, def.ID, m.app.table())
	if m.current.form == nil {
		return nil
	}
	if m.width > 0 {
		m.current.form = m.current.form.WithWidth(max(m.width-sidebarWidth-4, 30))
	}
	return m.current.form.Init()
}

func (m *wizardModel) View() string {
	if m.quitting {
		return ""
	}
	c := m.engine.Completion()

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("CROSSJOB ONBOARDING") + "  " + formatter.Bold(m.applicant.Name) + "\n")
	status := formatter.SaveIndicator(m.engine.SaveStatus())
	b.WriteString("Profile " + formatter.RenderProgress(c.TotalPercent, 24))
	if status != "" {
		b.WriteString("  " + status)
	}
	b.WriteString("\n")
	badges := make([]string, 0, len(domain.BadgeOrder))
	for _, badge := range m.engine.Badges() {
		badges = append(badges, formatter.BadgeIndicator(badge))
	}
	b.WriteString(strings.Join(badges, "  ") + "\n\n")

	body := m.stepView(c)
	if m.loc.Review {
		body = m.reviewView(c)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(sidebarWidth).Render(m.sidebar(c)),
		body,
	))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.notice + "\n")
	}
	if m.loc.Review {
		b.WriteString(m.help.View(reviewHelp{keys: m.keys}))
	} else {
		def, _ := m.engine.CurrentStep()
		repeatable := def.ID == domain.StepEducation || def.ID == domain.StepExperience
		b.WriteString(m.help.View(stepHelp{keys: m.keys, repeatable: repeatable}))
	}

	if m.promptVisible {
		return b.String() + "\n\n" + formatter.RenderBox("Profile complete",
			"Your profile is 100% complete and verified.\n\nAccept job proposals from employers? (y/n)")
	}
	return b.String()
}

func (m *wizardModel) sidebar(c wizard.Completion) string {
	var b strings.Builder
	for i, def := range m.engine.Registry().Steps() {
		score, ok := c.ScoreAt(i)
		line := fmt.Sprintf("%d %s", i+1, def.Title)
		switch {
		case !ok:
			b.WriteString(formatter.Dim("  "+line) + "\n")
			continue
		case !m.loc.Review && m.loc.Index == i:
			line = formatter.StyleHeader.Render("▶ " + line)
		default:
			line = "  " + line
		}
		pct := fmt.Sprintf(" %3d%%", score.Percent)
		if score.IsComplete {
			pct = formatter.StyleGreen.Render(pct)
		}
		b.WriteString(line + pct + "\n")
	}
	review := "  Review"
	if m.loc.Review {
		review = formatter.StyleHeader.Render("▶ Review")
	}
	b.WriteString(review + "\n")
	return b.String()
}

func (m *wizardModel) stepView(c wizard.Completion) string {
	def, ok := m.engine.CurrentStep()
	if !ok {
		return ""
	}
	var b strings.Builder
	pct := 0
	if score, ok := c.ScoreAt(m.loc.Index); ok {
		pct = score.Percent
	}
	b.WriteString(formatter.Header(def.Title) + "\n")
	b.WriteString(formatter.Dim(def.Description) + "  " + formatter.RenderProgress(pct, 10) + "\n\n")
	if m.current.note != "" {
		b.WriteString(m.current.note + "\n")
	}
	if m.current.form != nil {
		b.WriteString(m.current.form.View() + "\n")
	}
	if len(m.errs) > 0 {
		keys := make([]string, 0, len(m.errs))
		for k := range m.errs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString(formatter.Error(fmt.Sprintf("✗ %s: %s", k, m.errs[k])) + "\n")
		}
	}
	return b.String()
}

func (m *wizardModel) reviewView(c wizard.Completion) string {
	var b strings.Builder
	b.WriteString(formatter.Header("Review") + "\n")
	b.WriteString(formatter.RenderTable([]string{"#", "STEP", "PROGRESS"}, formatter.StepRows(m.engine.Registry(), c)))
	b.WriteString("\n")
	switch {
	case m.submitted != nil:
		b.WriteString(formatter.StyleGreen.Render("Submitted "+m.submitted.SubmittedAt.Local().Format(time.DateTime)) + "\n")
	case c.TotalPercent >= 100:
		b.WriteString("Everything is complete. Press enter to submit your profile.\n")
	default:
		b.WriteString(formatter.Dim("Some steps are incomplete. Press a step number to edit it.") + "\n")
	}
	return b.String()
}
