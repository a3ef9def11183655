package wizard

import (
	"math"

	"github.com/alexanderramin/crossjob/internal/domain"
)

// Language signal weights. The sum is capped at 100.
const (
	weightLocalLanguage = 50
	weightCertificate   = 30
	weightEnglish       = 20
)

// StepScore is the derived completion of one applicable step.
type StepScore struct {
	StepID     domain.StepID `json:"stepId"`
	Index      int           `json:"index"`
	Percent    int           `json:"percent"`
	IsComplete bool          `json:"isComplete"`
}

// Completion is the derived completion of the whole wizard. Steps contains
// applicable steps only; inapplicable steps are neither listed nor averaged.
type Completion struct {
	TotalPercent int         `json:"totalPercent"`
	Steps        []StepScore `json:"steps"`
}

// ScoreAt returns the score for the step at registry index i, or false when
// that step is not applicable.
func (c Completion) ScoreAt(i int) (StepScore, bool) {
	for _, s := range c.Steps {
		if s.Index == i {
			return s, true
		}
	}
	return StepScore{}, false
}

// Score returns the score for id, or false when id is not applicable.
func (c Completion) Score(id domain.StepID) (StepScore, bool) {
	for _, s := range c.Steps {
		if s.StepID == id {
			return s, true
		}
	}
	return StepScore{}, false
}

// Score computes per-step and aggregate completion for s. It is a pure
// function of s and is recomputed on every mutation.
func (r *Registry) Score(s *domain.WizardState) Completion {
	var c Completion
	sum := 0
	for i, def := range r.steps {
		if !def.IsApplicable(s) {
			continue
		}
		pct := StepPercent(def.ID, s)
		sum += pct
		c.Steps = append(c.Steps, StepScore{
			StepID:     def.ID,
			Index:      i,
			Percent:    pct,
			IsComplete: pct >= 100,
		})
	}
	if len(c.Steps) > 0 {
		c.TotalPercent = int(math.Round(float64(sum) / float64(len(c.Steps))))
	}
	return c
}

// StepPercent returns the completion percentage of a single step,
// regardless of whether it is applicable.
func StepPercent(id domain.StepID, s *domain.WizardState) int {
	switch id {
	case domain.StepResidency:
		if residencyChosen(s) {
			return 100
		}
		return 0
	case domain.StepPersonal:
		return ratio(s.Personal.Values(), PersonalRequiredKeys(s))
	case domain.StepVisa:
		return ratio(s.Visa.Values(), VisaRequiredKeys(s))
	case domain.StepDelta:
		return deltaPercent(s)
	case domain.StepEducation:
		if len(s.Education.Entries) == 0 {
			return 0
		}
		// Only the first entry counts toward the score.
		return ratio(s.Education.Entries[0].Values(), EducationRequiredKeys)
	case domain.StepExperience:
		if s.Experience.NoExperience {
			return 100
		}
		if len(s.Experience.Entries) == 0 {
			return 0
		}
		return ratio(s.Experience.Entries[0].Values(), ExperienceRequiredKeys)
	case domain.StepLanguage:
		return languagePercent(s.Language)
	case domain.StepDocuments:
		return ratio(s.Documents.Values(), DocumentRequiredKeys)
	default:
		return 0
	}
}

// deltaPercent scores the DELTA step against the schema in effect for the
// chosen classification code. No code chosen is a blocking 0%; an in-flight
// load holds the pre-load value; a failed load has no required fields.
func deltaPercent(s *domain.WizardState) int {
	code := s.Visa.VisaCode
	if domain.IsBlank(code) {
		return 0
	}
	sch := s.Delta.Schema
	if sch.Status == domain.SchemaLoading {
		return sch.HeldPercent
	}
	if sch.Code != code {
		return 0
	}
	switch sch.Status {
	case domain.SchemaReady, domain.SchemaFailed:
		return ratio(s.Delta.Values, domain.RequiredKeys(sch.Fields))
	default:
		return 0
	}
}

func languagePercent(l domain.LanguageStep) int {
	pts := 0
	if !domain.IsBlank(l.LocalLevel) {
		pts += weightLocalLanguage
	}
	if !domain.IsBlank(l.Certificate) {
		pts += weightCertificate
	}
	if !domain.IsBlank(l.EnglishLevel) {
		pts += weightEnglish
	}
	return min(pts, 100)
}

// ratio returns round(100*filled/total) over keys; an empty key set is complete.
func ratio(values map[string]string, keys []string) int {
	if len(keys) == 0 {
		return 100
	}
	filled := domain.CountFilled(values, keys)
	return int(math.Round(100 * float64(filled) / float64(len(keys))))
}
