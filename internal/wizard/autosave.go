package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// Persister stores one step's slice of the wizard state.
type Persister interface {
	Save(ctx context.Context, id domain.StepID, data domain.StepData) error
}

// PersisterFunc adapts a function to Persister.
type PersisterFunc func(ctx context.Context, id domain.StepID, data domain.StepData) error

func (f PersisterFunc) Save(ctx context.Context, id domain.StepID, data domain.StepData) error {
	return f(ctx, id, data)
}

// AutosaveConfig holds the autosave timings.
type AutosaveConfig struct {
	// Debounce collapses changes arriving closer together than this.
	Debounce time.Duration
	// SavedRevert is how long "saved" is shown before reverting to idle.
	SavedRevert time.Duration
}

// DefaultAutosaveConfig returns the standard timings.
func DefaultAutosaveConfig() AutosaveConfig {
	return AutosaveConfig{
		Debounce:    800 * time.Millisecond,
		SavedRevert: 2 * time.Second,
	}
}

// Autosave debounces change notifications and persists the dirty steps of
// the latest state snapshot. It drives the save-status machine:
//
//	idle|saved -> saving -> saved -> (after SavedRevert) idle
//	                     -> error  (until the next NotifyChange)
//
// Failed steps stay dirty and are retried with the next change only.
type Autosave struct {
	cfg       AutosaveConfig
	persister Persister
	snapshot  func() domain.WizardState
	observer  Observer
	onStatus  func(domain.SaveStatus)

	// saveMu serializes save runs so attempts never overlap.
	saveMu sync.Mutex

	mu     sync.Mutex
	status domain.SaveStatus
	dirty  map[domain.StepID]bool
	timer  *time.Timer
	revert *time.Timer
	closed bool
}

// NewAutosave creates a coordinator. snapshot must return the current state
// at call time; onStatus may be nil.
func NewAutosave(p Persister, snapshot func() domain.WizardState, cfg AutosaveConfig, observer Observer, onStatus func(domain.SaveStatus)) *Autosave {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultAutosaveConfig().Debounce
	}
	if cfg.SavedRevert <= 0 {
		cfg.SavedRevert = DefaultAutosaveConfig().SavedRevert
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Autosave{
		cfg:       cfg,
		persister: p,
		snapshot:  snapshot,
		observer:  observer,
		onStatus:  onStatus,
		status:    domain.SaveIdle,
		dirty:     make(map[domain.StepID]bool),
	}
}

// Status returns the current save status.
func (a *Autosave) Status() domain.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// NotifyChange marks id dirty and (re)starts the debounce timer. It never
// blocks on persistence.
func (a *Autosave) NotifyChange(id domain.StepID) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.dirty[id] = true
	changed := false
	if a.status == domain.SaveError {
		a.status = domain.SaveIdle
		changed = true
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.cfg.Debounce, a.fire)
	a.mu.Unlock()

	if changed {
		a.emit(domain.SaveIdle)
	}
}

// Flush cancels any pending debounce and saves dirty steps now.
func (a *Autosave) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
	return a.run(ctx)
}

// Close stops all timers. Pending changes are dropped; call Flush first to
// keep them.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.revert != nil {
		a.revert.Stop()
		a.revert = nil
	}
}

func (a *Autosave) fire() {
	a.mu.Lock()
	a.timer = nil
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return
	}
	_ = a.run(context.Background())
}

// run persists every dirty step from a fresh snapshot.
func (a *Autosave) run(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if len(a.dirty) == 0 {
		a.mu.Unlock()
		return nil
	}
	steps := make([]domain.StepID, 0, len(a.dirty))
	for _, id := range domain.StepOrder {
		if a.dirty[id] {
			steps = append(steps, id)
		}
	}
	a.dirty = make(map[domain.StepID]bool)
	if a.revert != nil {
		a.revert.Stop()
		a.revert = nil
	}
	a.status = domain.SaveSaving
	a.mu.Unlock()
	a.emit(domain.SaveSaving)

	snap := a.snapshot()
	var errs []error
	var failed []domain.StepID
	for _, id := range steps {
		slot, err := snap.Slot(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		start := time.Now()
		err = a.persister.Save(ctx, id, slot)
		a.observer.ObserveSave(ctx, SaveEvent{Step: id, Duration: time.Since(start), Err: err})
		if err != nil {
			errs = append(errs, err)
			failed = append(failed, id)
		}
	}

	a.mu.Lock()
	var next domain.SaveStatus
	if len(errs) > 0 {
		for _, id := range failed {
			a.dirty[id] = true
		}
		next = domain.SaveError
	} else {
		next = domain.SaveSaved
		if !a.closed {
			a.revert = time.AfterFunc(a.cfg.SavedRevert, a.revertToIdle)
		}
	}
	a.status = next
	a.mu.Unlock()
	a.emit(next)

	return errors.Join(errs...)
}

func (a *Autosave) revertToIdle() {
	a.mu.Lock()
	if a.status != domain.SaveSaved {
		a.mu.Unlock()
		return
	}
	a.status = domain.SaveIdle
	a.revert = nil
	a.mu.Unlock()
	a.emit(domain.SaveIdle)
}

func (a *Autosave) emit(s domain.SaveStatus) {
	if a.onStatus != nil {
		a.onStatus(s)
	}
}
