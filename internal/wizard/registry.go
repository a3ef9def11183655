package wizard

import (
	"fmt"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// StepDefinition is the static metadata of one wizard step.
type StepDefinition struct {
	ID          domain.StepID
	Order       int
	Title       string
	Description string

	applicable func(*domain.WizardState) bool
}

// IsApplicable evaluates the step's branch predicate against s.
func (d StepDefinition) IsApplicable(s *domain.WizardState) bool {
	if d.applicable == nil {
		return true
	}
	return d.applicable(s)
}

// Registry is the fixed, ordered list of wizard steps.
type Registry struct {
	steps []StepDefinition
	index map[domain.StepID]int
}

// DefaultRegistry returns the eight-step onboarding registry.
func DefaultRegistry() *Registry {
	defs := []StepDefinition{
		{ID: domain.StepResidency, Title: "Residency", Description: "Where are you applying from?"},
		{ID: domain.StepPersonal, Title: "Personal Details", Description: "Identity and contact information.", applicable: residencyChosen},
		{ID: domain.StepVisa, Title: "Visa Status", Description: "Your visa classification and key dates.", applicable: residencyChosen},
		{ID: domain.StepDelta, Title: "Visa-Specific Details", Description: "Fields required by your visa classification.", applicable: residencyChosen},
		{ID: domain.StepEducation, Title: "Education", Description: "Schools and degrees."},
		{ID: domain.StepExperience, Title: "Work Experience", Description: "Previous employment, or opt out."},
		{ID: domain.StepLanguage, Title: "Language Ability", Description: "Local language, certificates and English."},
		{ID: domain.StepDocuments, Title: "Document Verification", Description: "Upload identity and residence documents.", applicable: residesDomestically},
	}
	return newRegistry(defs)
}

func newRegistry(defs []StepDefinition) *Registry {
	r := &Registry{
		steps: make([]StepDefinition, len(defs)),
		index: make(map[domain.StepID]int, len(defs)),
	}
	for i, d := range defs {
		d.Order = i
		r.steps[i] = d
		r.index[d.ID] = i
	}
	return r
}

// Steps returns a copy of the ordered step list.
func (r *Registry) Steps() []StepDefinition {
	return append([]StepDefinition(nil), r.steps...)
}

// Len returns the number of steps.
func (r *Registry) Len() int { return len(r.steps) }

// StepAt returns the step at index, or ErrOutOfRange.
func (r *Registry) StepAt(index int) (StepDefinition, error) {
	if index < 0 || index >= len(r.steps) {
		return StepDefinition{}, fmt.Errorf("index %d: %w", index, ErrOutOfRange)
	}
	return r.steps[index], nil
}

// IndexOf returns the position of id, or -1 when id is not registered.
func (r *Registry) IndexOf(id domain.StepID) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

// Lookup returns the definition registered for id.
func (r *Registry) Lookup(id domain.StepID) (StepDefinition, bool) {
	i, ok := r.index[id]
	if !ok {
		return StepDefinition{}, false
	}
	return r.steps[i], true
}
