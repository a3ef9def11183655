package cli

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/alexanderramin/crossjob/internal/cli/formatter"
	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/alexanderramin/crossjob/internal/wizard"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const datePlaceholder = "YYYY-MM-DD"

// crossjobHuhTheme styles huh forms with the formatter palette.
func crossjobHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// stepForm is the input surface of one step. Bound values live in the
// closures; commit writes them back through the engine's update path.
// A nil form means the step shows note only.
type stepForm struct {
	step   domain.StepID
	key    string
	form   *huh.Form
	note   string
	commit func(e *wizard.Engine)
}

// formKey changes whenever the shape of a step's form must change: the
// residency branch, the DELTA schema in effect, or the number of entries.
func formKey(id domain.StepID, s domain.WizardState) string {
	switch id {
	case domain.StepPersonal, domain.StepVisa:
		return fmt.Sprintf("%s/%s", id, s.Residency.Category)
	case domain.StepDelta:
		sch := s.Delta.Schema
		return fmt.Sprintf("%s/%s/%s/%d", id, sch.Code, sch.Status, len(sch.Fields))
	case domain.StepEducation:
		return fmt.Sprintf("%s/%d", id, len(s.Education.Entries))
	case domain.StepExperience:
		return fmt.Sprintf("%s/%t/%d", id, s.Experience.NoExperience, len(s.Experience.Entries))
	default:
		return string(id)
	}
}

func buildStepForm(e *wizard.Engine, id domain.StepID, table *schema.Table) stepForm {
	snap := e.Snapshot()
	sf := stepForm{step: id, key: formKey(id, snap)}

	var groups []*huh.Group
	switch id {
	case domain.StepResidency:
		groups, sf.commit = residencyForm(snap.Residency)
	case domain.StepPersonal:
		groups, sf.commit = personalForm(snap.Personal, snap.Residency.Category)
	case domain.StepVisa:
		groups, sf.commit = visaForm(snap.Visa, snap.Residency.Category, table)
	case domain.StepDelta:
		groups, sf.commit, sf.note = deltaForm(snap.Delta, snap.Visa.VisaCode)
	case domain.StepEducation:
		groups, sf.commit, sf.note = educationForm(snap.Education)
	case domain.StepExperience:
		groups, sf.commit = experienceForm(snap.Experience)
	case domain.StepLanguage:
		groups, sf.commit = languageForm(snap.Language)
	case domain.StepDocuments:
		groups, sf.commit = documentsForm(snap.Documents)
	}
	if len(groups) > 0 {
		sf.form = huh.NewForm(groups...).WithTheme(crossjobHuhTheme()).WithShowHelp(false)
	}
	return sf
}

// commitSlice writes the fields of next that differ from base onto the
// engine's slice and then advances base. base is what the form was built
// from, so fields the form never touched keep whatever the engine holds.
func commitSlice[T wizard.StepSlice](e *wizard.Engine, base *T, next T) {
	if reflect.DeepEqual(*base, next) {
		return
	}
	from, to := reflect.ValueOf(*base), reflect.ValueOf(next)
	wizard.Update(e, func(s *T) {
		cur := reflect.ValueOf(s).Elem()
		for i := range cur.NumField() {
			if !reflect.DeepEqual(from.Field(i).Interface(), to.Field(i).Interface()) {
				cur.Field(i).Set(to.Field(i))
			}
		}
	})
	*base = next
}

func input(title string, v *string) *huh.Input {
	return huh.NewInput().Title(title).Value(v)
}

func dateInput(title string, v *string) *huh.Input {
	return input(title, v).Placeholder(datePlaceholder)
}

// choice builds a select whose first option is an explicit "not chosen yet",
// so an untouched select never fills a field.
func choice(title string, v *string, options ...string) *huh.Select[string] {
	opts := []huh.Option[string]{huh.NewOption("Select…", "")}
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}
	return huh.NewSelect[string]().Title(title).Options(opts...).Value(v)
}

func residencyForm(r domain.ResidencyStep) ([]*huh.Group, func(*wizard.Engine)) {
	category := string(r.Category)
	field := huh.NewSelect[string]().
		Title("Where are you applying from?").
		Options(
			huh.NewOption("Select…", ""),
			huh.NewOption("I already live in Korea", string(domain.ResidencyDomestic)),
			huh.NewOption("I am applying from abroad", string(domain.ResidencyOverseas)),
		).
		Value(&category)

	base := r
	commit := func(e *wizard.Engine) {
		commitSlice(e, &base, domain.ResidencyStep{Category: domain.ResidencyCategory(category)})
	}
	return []*huh.Group{huh.NewGroup(field)}, commit
}

func personalForm(p domain.PersonalStep, category domain.ResidencyCategory) ([]*huh.Group, func(*wizard.Engine)) {
	base := p
	fields := []huh.Field{
		input("Full name", &p.FullName),
		dateInput("Date of birth", &p.BirthDate),
		input("Nationality", &p.Nationality),
		input("Phone", &p.Phone).Placeholder("+82 10 1234 5678"),
		input("Email", &p.Email),
	}
	switch category {
	case domain.ResidencyDomestic:
		fields = append(fields,
			input("Alien registration number", &p.AlienRegNo),
			input("Address in Korea", &p.Address),
		)
	case domain.ResidencyOverseas:
		fields = append(fields,
			input("Passport number", &p.PassportNo),
			input("Country you live in", &p.CurrentCountry),
		)
	}
	commit := func(e *wizard.Engine) { commitSlice(e, &base, p) }
	return []*huh.Group{huh.NewGroup(fields...)}, commit
}

func visaForm(v domain.VisaStep, category domain.ResidencyCategory, table *schema.Table) ([]*huh.Group, func(*wizard.Engine)) {
	base := v
	codes := table.Codes()
	opts := make([]huh.Option[string], 0, len(codes)+2)
	opts = append(opts, huh.NewOption("Select…", ""))
	known := false
	for _, c := range codes {
		opts = append(opts, huh.NewOption(c.Code+"  "+c.Title, c.Code))
		known = known || c.Code == v.VisaCode
	}
	if !known && !domain.IsBlank(v.VisaCode) {
		opts = append(opts, huh.NewOption(v.VisaCode, v.VisaCode))
	}

	fields := []huh.Field{
		huh.NewSelect[string]().Title("Visa classification").Options(opts...).Value(&v.VisaCode),
	}
	switch category {
	case domain.ResidencyDomestic:
		fields = append(fields, dateInput("Visa expiry date", &v.VisaExpiry))
	case domain.ResidencyOverseas:
		fields = append(fields, dateInput("Desired entry date", &v.DesiredEntryDate))
	}
	commit := func(e *wizard.Engine) { commitSlice(e, &base, v) }
	return []*huh.Group{huh.NewGroup(fields...)}, commit
}

func deltaForm(d domain.DeltaStep, code string) ([]*huh.Group, func(*wizard.Engine), string) {
	sch := d.Schema
	switch {
	case domain.IsBlank(code):
		return nil, nil, "Choose a visa classification on the Visa Status step first."
	case sch.Status == domain.SchemaLoading || sch.Code != code:
		return nil, nil, fmt.Sprintf("Loading the fields for %s…", code)
	case sch.Status == domain.SchemaFailed:
		return nil, nil, sch.Notice
	case len(sch.Fields) == 0:
		return nil, nil, fmt.Sprintf("%s needs no additional details.", code)
	}

	base := maps.Clone(d.Values)
	bound := make(map[string]*string, len(sch.Fields))
	fields := make([]huh.Field, 0, len(sch.Fields))
	for _, f := range sch.Fields {
		v := d.Values[f.Key]
		bound[f.Key] = &v
		title := f.DisplayLabel()
		if f.Required {
			title += " *"
		}
		switch f.Kind {
		case domain.FieldSelect:
			fields = append(fields, choice(title, &v, f.Options...))
		case domain.FieldBoolean:
			fields = append(fields, huh.NewSelect[string]().Title(title).Options(
				huh.NewOption("Select…", ""),
				huh.NewOption("Yes", "true"),
				huh.NewOption("No", "false"),
			).Value(&v))
		case domain.FieldDate:
			fields = append(fields, dateInput(title, &v))
		default:
			fields = append(fields, input(title, &v))
		}
	}

	// Only answers edited since the form was built are written back.
	commit := func(e *wizard.Engine) {
		changed := make(map[string]string)
		for k, v := range bound {
			if *v != base[k] {
				changed[k] = *v
			}
		}
		if len(changed) == 0 {
			return
		}
		wizard.Update(e, func(s *domain.DeltaStep) {
			if s.Values == nil {
				s.Values = make(map[string]string, len(changed))
			}
			for k, v := range changed {
				if strings.TrimSpace(v) == "" {
					delete(s.Values, k)
				} else {
					s.Values[k] = v
				}
			}
		})
		if base == nil {
			base = make(map[string]string, len(changed))
		}
		maps.Copy(base, changed)
	}
	return []*huh.Group{huh.NewGroup(fields...).Title(code + " details")}, commit, ""
}

func educationForm(ed domain.EducationStep) ([]*huh.Group, func(*wizard.Engine), string) {
	if len(ed.Entries) == 0 {
		return nil, nil, "No education entries yet. Press ctrl+a to add one."
	}
	base := domain.EducationStep{Entries: slices.Clone(ed.Entries)}
	entries := slices.Clone(ed.Entries)
	groups := make([]*huh.Group, 0, len(entries))
	for i := range entries {
		en := &entries[i]
		groups = append(groups, huh.NewGroup(
			input("School", &en.School),
			input("Degree", &en.Degree),
			input("Major", &en.Major),
			input("Graduation year", &en.GraduationYear).Placeholder("YYYY"),
		).Title(fmt.Sprintf("Entry %d of %d", i+1, len(entries))))
	}
	commit := func(e *wizard.Engine) {
		commitSlice(e, &base, domain.EducationStep{Entries: slices.Clone(entries)})
	}
	return groups, commit, ""
}

func experienceForm(ex domain.ExperienceStep) ([]*huh.Group, func(*wizard.Engine)) {
	base := domain.ExperienceStep{Entries: slices.Clone(ex.Entries)}
	base.SetNoExperience(ex.NoExperience)
	noExperience := ex.NoExperience
	entries := slices.Clone(ex.Entries)

	groups := []*huh.Group{huh.NewGroup(
		huh.NewConfirm().
			Title("I have no work experience").
			Affirmative("Yes").
			Negative("No").
			Value(&noExperience),
	)}
	if !ex.NoExperience {
		for i := range entries {
			en := &entries[i]
			groups = append(groups, huh.NewGroup(
				input("Company", &en.Company),
				input("Position", &en.Position),
				dateInput("Start date", &en.StartDate),
				dateInput("End date (blank if current)", &en.EndDate),
				huh.NewText().Title("Duties").Lines(3).Value(&en.Duties),
			).Title(fmt.Sprintf("Entry %d of %d", i+1, len(entries))))
		}
	}

	commit := func(e *wizard.Engine) {
		next := domain.ExperienceStep{Entries: slices.Clone(entries)}
		next.SetNoExperience(noExperience)
		commitSlice(e, &base, next)
	}
	return groups, commit
}

var (
	localLevels   = []string{"TOPIK 1", "TOPIK 2", "TOPIK 3", "TOPIK 4", "TOPIK 5", "TOPIK 6", "Conversational"}
	englishLevels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}
)

func languageForm(l domain.LanguageStep) ([]*huh.Group, func(*wizard.Engine)) {
	base := l
	group := huh.NewGroup(
		choice("Korean level", &l.LocalLevel, localLevels...),
		input("Language certificate", &l.Certificate).Placeholder("e.g. TOPIK, KIIP"),
		choice("English level", &l.EnglishLevel, englishLevels...),
	)
	commit := func(e *wizard.Engine) { commitSlice(e, &base, l) }
	return []*huh.Group{group}, commit
}

func documentsForm(d domain.DocumentsStep) ([]*huh.Group, func(*wizard.Engine)) {
	base := d
	group := huh.NewGroup(
		input("Passport copy", &d.PassportCopy).Placeholder("file path"),
		input("Alien registration card", &d.AlienRegCard).Placeholder("file path"),
		input("Proof of residence", &d.ResidenceProof).Placeholder("file path"),
	)
	commit := func(e *wizard.Engine) { commitSlice(e, &base, d) }
	return []*huh.Group{group}, commit
}
