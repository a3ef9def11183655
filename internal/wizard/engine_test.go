package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	fields map[string][]domain.FieldDescriptor
	gates  map[string]chan struct{}
	err    error
	calls  []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fields: map[string][]domain.FieldDescriptor{
			"E-9": e9Fields,
			"E-7": {{Key: "sponsorName", Kind: domain.FieldText, Required: true}},
			"F-4": nil,
		},
		gates: make(map[string]chan struct{}),
	}
}

func (f *fakeSource) hold(code string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[code] = ch
	return ch
}

func (f *fakeSource) FetchFields(ctx context.Context, code string) ([]domain.FieldDescriptor, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	gate := f.gates[code]
	fields, ok := f.fields[code]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("unknown classification")
	}
	return fields, nil
}

type schemaObserver struct {
	NoopObserver
	mu     sync.Mutex
	events []SchemaEvent
}

func (o *schemaObserver) ObserveSchemaLoad(_ context.Context, e SchemaEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) record(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(kind EventKind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func deltaScore(t *testing.T, e *Engine) int {
	t.Helper()
	s, ok := e.Completion().Score(domain.StepDelta)
	require.True(t, ok, "delta not applicable")
	return s.Percent
}

func TestEngine_NextBlockedByValidation(t *testing.T) {
	e := New()
	defer e.Close()

	res := e.Next()
	assert.False(t, res.Moved)
	assert.Contains(t, res.Errors, domain.FieldResidency)
	assert.Equal(t, Location{Index: 0}, res.Location)

	Update(e, func(r *domain.ResidencyStep) { r.Category = domain.ResidencyOverseas })
	res = e.Next()
	assert.True(t, res.Moved)
	assert.Empty(t, res.Errors)
	assert.Equal(t, Location{Index: 1}, e.Location())
}

func TestEngine_NextBlockedByMissingRequiredFields(t *testing.T) {
	e := New()
	defer e.Close()
	Update(e, func(r *domain.ResidencyStep) { r.Category = domain.ResidencyDomestic })
	require.True(t, e.Next().Moved)

	res := e.Next()
	assert.False(t, res.Moved)
	assert.Equal(t, "required", res.Errors[domain.FieldFullName])
	assert.Equal(t, Location{Index: 1}, e.Location())

	full := completeDomestic().Personal
	Update(e, func(p *domain.PersonalStep) { *p = full })
	res = e.Next()
	assert.True(t, res.Moved)
	assert.Equal(t, Location{Index: 2}, res.Location)
}

func TestEngine_NextAllowedWhenSchemaLoadFails(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("connection refused")
	e := New(WithSchemaSource(src))
	defer e.Close()

	s := completeOverseas()
	s.Delta = domain.DeltaStep{}
	e.Hydrate(s)
	e.WaitSchema()
	require.True(t, e.JumpTo(3))

	res := e.Next()
	assert.True(t, res.Moved)
	assert.Empty(t, res.Errors)
}

func TestEngine_UpdateRescoresSynchronously(t *testing.T) {
	e := New()
	defer e.Close()

	c := Update(e, func(l *domain.LanguageStep) { l.LocalLevel = "TOPIK 4" })
	s, ok := c.Score(domain.StepLanguage)
	require.True(t, ok)
	assert.Equal(t, 50, s.Percent)
	assert.Equal(t, c, e.Completion())
}

func TestEngine_ExperienceOptOutClearsEntries(t *testing.T) {
	e := New()
	defer e.Close()

	Update(e, func(x *domain.ExperienceStep) {
		x.AddEntry()
		x.Entries[0].Company = "Hanul Foods"
	})
	Update(e, func(x *domain.ExperienceStep) { x.NoExperience = true })

	got := Slice[domain.ExperienceStep](e)
	assert.True(t, got.NoExperience)
	assert.Empty(t, got.Entries)
}

func TestEngine_RenderersCannotOverwriteSchema(t *testing.T) {
	src := newFakeSource()
	e := New(WithSchemaSource(src))
	defer e.Close()
	e.Hydrate(completeDomestic())
	e.WaitSchema()

	Update(e, func(d *domain.DeltaStep) {
		d.Schema = domain.DeltaSchema{}
		d.Values["sectorNote"] = "night shifts"
	})

	got := Slice[domain.DeltaStep](e)
	assert.Equal(t, domain.SchemaReady, got.Schema.Status)
	assert.Equal(t, "night shifts", got.Values["sectorNote"])
}

func TestEngine_SchemaLoadHoldsPreviousScore(t *testing.T) {
	src := newFakeSource()
	e := New(WithSchemaSource(src))
	defer e.Close()
	e.Hydrate(completeDomestic())
	e.WaitSchema()
	require.Equal(t, 100, deltaScore(t, e))

	gate := src.hold("E-7")
	Update(e, func(v *domain.VisaStep) { v.VisaCode = "E-7" })

	assert.Equal(t, domain.SchemaLoading, Slice[domain.DeltaStep](e).Schema.Status)
	assert.Equal(t, 100, deltaScore(t, e), "pre-load value is held")
	assert.Contains(t, e.ValidateStep(domain.StepDelta), SchemaFieldKey)

	close(gate)
	e.WaitSchema()
	assert.Equal(t, domain.SchemaReady, Slice[domain.DeltaStep](e).Schema.Status)
	assert.Equal(t, 0, deltaScore(t, e), "sponsorName is required and missing")
}

func TestEngine_StaleSchemaResultDiscarded(t *testing.T) {
	src := newFakeSource()
	obs := &schemaObserver{}
	e := New(WithSchemaSource(src), WithObserver(obs))
	defer e.Close()
	Update(e, func(r *domain.ResidencyStep) { r.Category = domain.ResidencyDomestic })

	gate := src.hold("E-7")
	Update(e, func(v *domain.VisaStep) { v.VisaCode = "E-7" })
	Update(e, func(v *domain.VisaStep) { v.VisaCode = "E-9" })
	require.Eventually(t, func() bool {
		return Slice[domain.DeltaStep](e).Schema.Status == domain.SchemaReady
	}, time.Second, 2*time.Millisecond)

	close(gate)
	e.WaitSchema()

	sch := Slice[domain.DeltaStep](e).Schema
	assert.Equal(t, "E-9", sch.Code)
	assert.Equal(t, e9Fields, sch.Fields)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.events, 2)
	stale := map[string]bool{}
	for _, ev := range obs.events {
		stale[ev.Code] = ev.Stale
	}
	assert.Equal(t, map[string]bool{"E-9": false, "E-7": true}, stale)
}

func TestEngine_FailedSchemaLoadFailsOpen(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("connection refused")
	e := New(WithSchemaSource(src))
	defer e.Close()

	Update(e, func(r *domain.ResidencyStep) { r.Category = domain.ResidencyOverseas })
	Update(e, func(v *domain.VisaStep) { v.VisaCode = "E-9" })
	e.WaitSchema()

	sch := Slice[domain.DeltaStep](e).Schema
	assert.Equal(t, domain.SchemaFailed, sch.Status)
	assert.NotEmpty(t, sch.Notice)
	assert.Equal(t, 100, deltaScore(t, e))
	assert.Empty(t, e.ValidateStep(domain.StepDelta))
}

func TestEngine_ClearingCodeResetsSchema(t *testing.T) {
	e := New(WithSchemaSource(newFakeSource()))
	defer e.Close()
	e.Hydrate(completeOverseas())
	e.WaitSchema()

	Update(e, func(v *domain.VisaStep) { v.VisaCode = "" })
	assert.Equal(t, domain.SchemaNone, Slice[domain.DeltaStep](e).Schema.Status)
	assert.Equal(t, 0, deltaScore(t, e))
}

func TestEngine_NoSourceMeansNoDynamicFields(t *testing.T) {
	e := New()
	defer e.Close()
	Update(e, func(r *domain.ResidencyStep) { r.Category = domain.ResidencyDomestic })
	Update(e, func(v *domain.VisaStep) { v.VisaCode = "D-2" })

	assert.Equal(t, domain.SchemaReady, Slice[domain.DeltaStep](e).Schema.Status)
	assert.Equal(t, 100, deltaScore(t, e))
}

func TestEngine_PromptFiresOnceWhenReachingHundred(t *testing.T) {
	prompts := 0
	log := &eventLog{}
	e := New(WithSchemaSource(newFakeSource()), WithPrompt(func() { prompts++ }))
	defer e.Close()
	e.Subscribe(log.record)

	s := completeDomestic()
	s.Documents.ResidenceProof = ""
	e.Hydrate(s)
	e.WaitSchema()
	require.Equal(t, 96, e.Completion().TotalPercent)

	Update(e, func(d *domain.DocumentsStep) { d.ResidenceProof = "lease.pdf" })
	assert.Equal(t, 1, prompts)
	assert.Equal(t, 1, log.count(EventPrompt))
	assert.Equal(t, domain.BadgeVerified, badgeStatus(e.Badges(), domain.BadgeProfile))

	Update(e, func(d *domain.DocumentsStep) { d.ResidenceProof = "" })
	Update(e, func(d *domain.DocumentsStep) { d.ResidenceProof = "lease.pdf" })
	assert.Equal(t, 1, prompts)
	assert.Equal(t, 1, log.count(EventPrompt))
}

func TestEngine_HydrateAtHundredSkipsPrompt(t *testing.T) {
	prompts := 0
	e := New(WithSchemaSource(newFakeSource()), WithPrompt(func() { prompts++ }))
	defer e.Close()

	e.Hydrate(completeDomestic())
	e.WaitSchema()

	assert.Equal(t, 100, e.Completion().TotalPercent)
	assert.Equal(t, 0, prompts)
	assert.True(t, e.PromptConsumed())
	assert.Equal(t, domain.BadgeVerified, badgeStatus(e.Badges(), domain.BadgeProfile))
	assert.Equal(t, Location{Index: 0}, e.Location(), "no resume jump at 100%")
}

func TestEngine_HydrateResumesAtFirstIncompleteStep(t *testing.T) {
	e := New(WithSchemaSource(newFakeSource()))
	defer e.Close()

	s := completeDomestic()
	s.Education = domain.EducationStep{}
	e.Hydrate(s)
	e.WaitSchema()

	assert.Equal(t, 88, e.Completion().TotalPercent)
	assert.Equal(t, Location{Index: 4}, e.Location())

	require.True(t, e.Prev())
	Update(e, func(p *domain.PersonalStep) { p.Nationality = "VN" })
	assert.Equal(t, Location{Index: 3}, e.Location(), "resume happens only once")
}

func TestEngine_ReviewAndJump(t *testing.T) {
	e := New()
	defer e.Close()

	s := completeOverseas()
	e.Hydrate(s)
	require.Equal(t, 100, e.Completion().TotalPercent)

	require.True(t, e.Review())
	assert.True(t, e.Location().Review)
	_, ok := e.CurrentStep()
	assert.False(t, ok)

	assert.False(t, e.JumpTo(7), "documents are not applicable overseas")
	require.True(t, e.JumpTo(2))
	def, ok := e.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, domain.StepVisa, def.ID)
}

func TestEngine_SetBadge(t *testing.T) {
	e := New(WithBadges([]domain.Badge{{ID: domain.BadgeEducation, Status: domain.BadgePending}}))
	defer e.Close()

	assert.Equal(t, domain.BadgePending, badgeStatus(e.Badges(), domain.BadgeEducation))
	require.NoError(t, e.SetBadge(domain.Badge{ID: domain.BadgeEducation, Status: domain.BadgeVerified}))
	assert.Equal(t, domain.BadgeVerified, badgeStatus(e.Badges(), domain.BadgeEducation))
	assert.ErrorIs(t, e.SetBadge(domain.Badge{ID: domain.BadgeProfile, Status: domain.BadgeVerified}), ErrBadgeNotExternal)
}

func TestEngine_SubscribersMayCallBack(t *testing.T) {
	e := New()
	defer e.Close()

	var seen []int
	unsubscribe := e.Subscribe(func(ev Event) {
		if ev.Kind == EventState {
			seen = append(seen, e.Completion().TotalPercent)
		}
	})
	Update(e, func(l *domain.LanguageStep) { l.LocalLevel = "TOPIK 1" })
	unsubscribe()
	Update(e, func(l *domain.LanguageStep) { l.EnglishLevel = "C1" })

	assert.Equal(t, []int{13}, seen)
}

func TestEngine_AutosavePersistsChanges(t *testing.T) {
	p := &recordingPersister{}
	log := &eventLog{}
	e := New(WithAutosave(p, fastAutosave))
	defer e.Close()
	e.Subscribe(log.record)

	Update(e, func(ps *domain.PersonalStep) { ps.FullName = "Nguyen Van A" })
	require.Eventually(t, func() bool { return p.count() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return e.SaveStatus() == domain.SaveSaved }, time.Second, 2*time.Millisecond)
	assert.GreaterOrEqual(t, log.count(EventSaveStatus), 2)

	saved := p.last().(*domain.PersonalStep)
	assert.Equal(t, "Nguyen Van A", saved.FullName)
}

func TestEngine_FlushWithoutAutosave(t *testing.T) {
	e := New()
	defer e.Close()
	assert.NoError(t, e.Flush(context.Background()))
	assert.Equal(t, domain.SaveIdle, e.SaveStatus())
}
