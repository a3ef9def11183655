package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// SchemaSource resolves the DELTA field list for a classification code.
type SchemaSource interface {
	FetchFields(ctx context.Context, code string) ([]domain.FieldDescriptor, error)
}

// EventKind names what changed in an Event.
type EventKind string

const (
	EventState      EventKind = "state"
	EventSchema     EventKind = "schema"
	EventNavigate   EventKind = "navigate"
	EventSaveStatus EventKind = "save_status"
	EventPrompt     EventKind = "prompt"
)

// Event tells subscribers that something they may render has changed.
type Event struct {
	Kind       EventKind
	Step       domain.StepID
	SaveStatus domain.SaveStatus
}

// NavResult is the outcome of Next. A blocked transition carries the
// field-keyed validation errors of the current step.
type NavResult struct {
	Moved    bool
	Errors   ValidationErrors
	Location Location
}

// StepSlice constrains Update and Slice to the per-step state types.
type StepSlice interface {
	domain.ResidencyStep | domain.PersonalStep | domain.VisaStep | domain.DeltaStep |
		domain.EducationStep | domain.ExperienceStep | domain.LanguageStep | domain.DocumentsStep
	StepID() domain.StepID
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default step registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithSchemaSource sets where DELTA field lists come from. Without a source
// every classification code has no dynamic fields.
func WithSchemaSource(src SchemaSource) Option {
	return func(e *Engine) { e.source = src }
}

// WithSchemaTimeout bounds a single schema load.
func WithSchemaTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.schemaTimeout = d
		}
	}
}

// WithAutosave enables debounced persistence through p.
func WithAutosave(p Persister, cfg AutosaveConfig) Option {
	return func(e *Engine) {
		e.persister = p
		e.autosaveCfg = cfg
	}
}

// WithObserver sets the telemetry observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithBadges seeds externally controlled badge states.
func WithBadges(badges []domain.Badge) Option {
	return func(e *Engine) { e.badges = badges }
}

// WithPrompt registers the one-time accept-proposals side effect.
func WithPrompt(fn func()) Option {
	return func(e *Engine) { e.onPrompt = fn }
}

// Engine owns the wizard state. Every mutation goes through Update, which
// rescoring, gamification and autosave follow synchronously.
type Engine struct {
	registry      *Registry
	source        SchemaSource
	schemaTimeout time.Duration
	observer      Observer
	persister     Persister
	autosaveCfg   AutosaveConfig
	badges        []domain.Badge
	onPrompt      func()

	ctx    context.Context
	cancel context.CancelFunc
	loads  sync.WaitGroup

	autosave *Autosave

	mu         sync.Mutex
	state      domain.WizardState
	nav        *Navigator
	gami       *Gamification
	settling   bool
	navTouched bool

	subsMu sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New creates an engine with an empty state positioned at the first step.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:      DefaultRegistry(),
		schemaTimeout: 5 * time.Second,
		observer:      NoopObserver{},
		subs:          make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.nav = NewNavigator(e.registry.Len())
	e.gami = NewGamification(e.badges)
	if e.persister != nil {
		e.autosave = NewAutosave(e.persister, e.Snapshot, e.autosaveCfg, e.observer, func(s domain.SaveStatus) {
			e.dispatch([]Event{{Kind: EventSaveStatus, SaveStatus: s}})
		})
	}
	return e
}

// Hydrate replaces the state with a previously persisted one and performs
// the one-shot resume jump once the DELTA schema for it has settled.
func (e *Engine) Hydrate(s domain.WizardState) {
	e.mu.Lock()
	e.state = s.Clone()
	e.state.Delta.Schema = domain.DeltaSchema{}
	if e.state.Experience.NoExperience {
		e.state.Experience.Entries = nil
	}
	e.settling = true
	e.navTouched = false
	events := []Event{{Kind: EventState}}
	events = append(events, e.syncSchemaLocked(0)...)
	events = append(events, e.observeLocked()...)
	e.mu.Unlock()
	e.dispatch(events)
}

// Update applies fn to the slice owned by T through the single update path
// and returns the recomputed completion.
func Update[T StepSlice](e *Engine, fn func(*T)) Completion {
	var zero T
	id := zero.StepID()

	e.mu.Lock()
	prevDelta := deltaPercent(&e.state)
	schema := e.state.Delta.Schema
	slot, err := e.state.Slot(id)
	if err != nil {
		e.mu.Unlock()
		return e.Completion()
	}
	fn(any(slot).(*T))
	// The schema is engine bookkeeping; renderers cannot overwrite it.
	e.state.Delta.Schema = schema

	events := []Event{{Kind: EventState, Step: id}}
	if e.state.Experience.NoExperience {
		e.state.Experience.Entries = nil
	}
	if id == domain.StepVisa {
		events = append(events, e.syncSchemaLocked(prevDelta)...)
	}
	events = append(events, e.observeLocked()...)
	comp := e.registry.Score(&e.state)
	e.mu.Unlock()

	if e.autosave != nil {
		e.autosave.NotifyChange(id)
	}
	e.dispatch(events)
	return comp
}

// Slice returns a copy of the slice owned by T.
func Slice[T StepSlice](e *Engine) T {
	var zero T
	snap := e.Snapshot()
	slot, err := snap.Slot(zero.StepID())
	if err != nil {
		return zero
	}
	return *any(slot).(*T)
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() domain.WizardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Registry returns the step registry in use.
func (e *Engine) Registry() *Registry { return e.registry }

// Completion scores the current state.
func (e *Engine) Completion() Completion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Score(&e.state)
}

// IsApplicable reports whether id is applicable under the current state.
func (e *Engine) IsApplicable(id domain.StepID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.IsStepApplicable(id, &e.state)
}

// Location returns the current navigation position.
func (e *Engine) Location() Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nav.Location()
}

// CurrentStep returns the step at the current position; false in review.
func (e *Engine) CurrentStep() (StepDefinition, bool) {
	loc := e.Location()
	if loc.Review {
		return StepDefinition{}, false
	}
	def, err := e.registry.StepAt(loc.Index)
	return def, err == nil
}

// Validation returns the current step's validation errors.
func (e *Engine) Validation() ValidationErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	loc := e.nav.Location()
	if loc.Review {
		return ValidationErrors{}
	}
	def, err := e.registry.StepAt(loc.Index)
	if err != nil {
		return ValidationErrors{}
	}
	return Validate(def.ID, &e.state)
}

// ValidateStep runs the local checks of id against the current state.
func (e *Engine) ValidateStep(id domain.StepID) ValidationErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Validate(id, &e.state)
}

// Next advances when the current step passes validation.
func (e *Engine) Next() NavResult {
	e.mu.Lock()
	loc := e.nav.Location()
	if loc.Review {
		e.mu.Unlock()
		return NavResult{Location: loc}
	}
	def, err := e.registry.StepAt(loc.Index)
	if err != nil {
		e.mu.Unlock()
		return NavResult{Location: loc}
	}
	if errs := Validate(def.ID, &e.state); len(errs) > 0 {
		e.mu.Unlock()
		return NavResult{Errors: errs, Location: loc}
	}
	moved := e.nav.Next(e.registry.Score(&e.state))
	res := NavResult{Moved: moved, Location: e.nav.Location()}
	e.navTouched = e.navTouched || moved
	e.mu.Unlock()

	if moved {
		e.dispatch([]Event{{Kind: EventNavigate}})
	}
	return res
}

// Prev moves back one applicable step, or out of review.
func (e *Engine) Prev() bool {
	return e.navigate(func(c Completion) bool { return e.nav.Prev(c) })
}

// JumpTo moves to the step at index when the gating rules allow it.
func (e *Engine) JumpTo(index int) bool {
	return e.navigate(func(c Completion) bool { return e.nav.JumpTo(index, c) })
}

// Review moves to the review pseudo-state when every step is complete.
func (e *Engine) Review() bool {
	return e.navigate(func(c Completion) bool { return e.nav.Review(c) })
}

func (e *Engine) navigate(fn func(Completion) bool) bool {
	e.mu.Lock()
	moved := fn(e.registry.Score(&e.state))
	e.navTouched = e.navTouched || moved
	e.mu.Unlock()
	if moved {
		e.dispatch([]Event{{Kind: EventNavigate}})
	}
	return moved
}

// Badges returns the current badge states.
func (e *Engine) Badges() []domain.Badge {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gami.Badges()
}

// SetBadge updates an externally controlled badge.
func (e *Engine) SetBadge(b domain.Badge) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gami.SetExternal(b)
}

// PromptConsumed reports whether the completion prompt has been used up.
func (e *Engine) PromptConsumed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gami.PromptConsumed()
}

// SaveStatus returns the autosave status; idle when autosave is disabled.
func (e *Engine) SaveStatus() domain.SaveStatus {
	if e.autosave == nil {
		return domain.SaveIdle
	}
	return e.autosave.Status()
}

// Flush persists pending changes immediately.
func (e *Engine) Flush(ctx context.Context) error {
	if e.autosave == nil {
		return nil
	}
	return e.autosave.Flush(ctx)
}

// WaitSchema blocks until in-flight schema loads have been applied or discarded.
func (e *Engine) WaitSchema() {
	e.loads.Wait()
}

// Close cancels schema loads and stops autosave timers.
func (e *Engine) Close() {
	e.cancel()
	e.loads.Wait()
	if e.autosave != nil {
		e.autosave.Close()
	}
}

// Subscribe registers fn for engine events and returns an unsubscribe func.
// fn runs outside the engine lock and may call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.subsMu.Lock()
	id := e.nextID
	e.nextID++
	e.subs[id] = fn
	e.subsMu.Unlock()
	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

func (e *Engine) dispatch(events []Event) {
	if len(events) == 0 {
		return
	}
	e.subsMu.Lock()
	subs := make([]func(Event), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.subsMu.Unlock()
	for _, ev := range events {
		if ev.Kind == EventPrompt && e.onPrompt != nil {
			e.onPrompt()
		}
		for _, fn := range subs {
			fn(ev)
		}
	}
}

// observeLocked feeds the new aggregate to gamification. While a hydrated
// session is still settling its schema, the first settled value becomes the
// baseline and triggers the resume jump instead.
func (e *Engine) observeLocked() []Event {
	comp := e.registry.Score(&e.state)
	if e.settling {
		if e.state.Delta.Schema.Status == domain.SchemaLoading {
			return nil
		}
		e.settling = false
		e.gami.Baseline(comp.TotalPercent)
		if e.navTouched {
			e.nav.DisarmResume()
			return nil
		}
		if e.nav.Resume(comp) {
			return []Event{{Kind: EventNavigate}}
		}
		return nil
	}
	if e.gami.Observe(comp.TotalPercent) {
		return []Event{{Kind: EventPrompt}}
	}
	return nil
}

// syncSchemaLocked starts a schema load when the classification code no
// longer matches the schema in effect. prevDelta is the DELTA score before
// the mutation, held while the load is in flight.
func (e *Engine) syncSchemaLocked(prevDelta int) []Event {
	code := e.state.Visa.VisaCode
	if code == e.state.Delta.Schema.Code && e.state.Delta.Schema.Status != domain.SchemaNone {
		return nil
	}
	if domain.IsBlank(code) {
		e.state.Delta.Schema = domain.DeltaSchema{}
		return []Event{{Kind: EventSchema, Step: domain.StepDelta}}
	}
	if e.source == nil {
		e.state.Delta.Schema = domain.DeltaSchema{Code: code, Status: domain.SchemaReady}
		return []Event{{Kind: EventSchema, Step: domain.StepDelta}}
	}
	e.state.Delta.Schema = domain.DeltaSchema{
		Code:        code,
		Status:      domain.SchemaLoading,
		HeldPercent: prevDelta,
	}
	e.loads.Add(1)
	go e.loadSchema(code)
	return []Event{{Kind: EventSchema, Step: domain.StepDelta}}
}

func (e *Engine) loadSchema(code string) {
	defer e.loads.Done()

	ctx, cancel := context.WithTimeout(e.ctx, e.schemaTimeout)
	defer cancel()

	start := time.Now()
	fields, err := e.source.FetchFields(ctx, strings.TrimSpace(code))
	event := SchemaEvent{Code: code, Duration: time.Since(start), FieldCount: len(fields), Err: err}

	e.mu.Lock()
	sch := &e.state.Delta.Schema
	if sch.Code != code || sch.Status != domain.SchemaLoading {
		e.mu.Unlock()
		event.Stale = true
		e.observer.ObserveSchemaLoad(ctx, event)
		return
	}
	if err != nil {
		*sch = domain.DeltaSchema{
			Code:   code,
			Status: domain.SchemaFailed,
			Notice: fmt.Sprintf("Could not load the fields for %s. You can continue without them.", code),
		}
	} else {
		*sch = domain.DeltaSchema{
			Code:   code,
			Status: domain.SchemaReady,
			Fields: append([]domain.FieldDescriptor(nil), fields...),
		}
	}
	events := []Event{{Kind: EventSchema, Step: domain.StepDelta}}
	events = append(events, e.observeLocked()...)
	e.mu.Unlock()

	e.observer.ObserveSchemaLoad(ctx, event)
	e.dispatch(events)
}
