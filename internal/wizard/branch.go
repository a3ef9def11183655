package wizard

import "github.com/alexanderramin/crossjob/internal/domain"

// Branch predicates. They are re-evaluated on every call; nothing about
// applicability is cached across mutations of the residency answer.

func residencyChosen(s *domain.WizardState) bool {
	return domain.ValidResidencyCategories[s.Residency.Category]
}

func residesDomestically(s *domain.WizardState) bool {
	return s.Residency.Category == domain.ResidencyDomestic
}

// IsStepApplicable reports whether id is part of the current branch.
// Unregistered steps are never applicable.
func (r *Registry) IsStepApplicable(id domain.StepID, s *domain.WizardState) bool {
	def, ok := r.Lookup(id)
	if !ok {
		return false
	}
	return def.IsApplicable(s)
}

// ApplicableIndexes returns the registry indexes applicable under s, in order.
func (r *Registry) ApplicableIndexes(s *domain.WizardState) []int {
	out := make([]int, 0, len(r.steps))
	for i, d := range r.steps {
		if d.IsApplicable(s) {
			out = append(out, i)
		}
	}
	return out
}

var personalBaseKeys = []string{
	domain.FieldFullName,
	domain.FieldBirthDate,
	domain.FieldNationality,
	domain.FieldPhone,
	domain.FieldEmail,
}

// PersonalRequiredKeys returns the personal-details keys required for the
// residency branch in s.
func PersonalRequiredKeys(s *domain.WizardState) []string {
	keys := append([]string(nil), personalBaseKeys...)
	switch s.Residency.Category {
	case domain.ResidencyDomestic:
		keys = append(keys, domain.FieldAlienRegNo, domain.FieldAddress)
	case domain.ResidencyOverseas:
		keys = append(keys, domain.FieldPassportNo, domain.FieldCurrentCountry)
	}
	return keys
}

// VisaRequiredKeys returns the visa-status keys required for the residency
// branch in s. Residents report an expiry; applicants abroad a planned entry.
func VisaRequiredKeys(s *domain.WizardState) []string {
	keys := []string{domain.FieldVisaCode}
	switch s.Residency.Category {
	case domain.ResidencyDomestic:
		keys = append(keys, domain.FieldVisaExpiry)
	case domain.ResidencyOverseas:
		keys = append(keys, domain.FieldDesiredEntryDate)
	}
	return keys
}

// EducationRequiredKeys are required on the first education entry.
var EducationRequiredKeys = []string{
	domain.FieldSchool,
	domain.FieldDegree,
	domain.FieldMajor,
	domain.FieldGraduationYear,
}

// ExperienceRequiredKeys are required on the first experience entry.
var ExperienceRequiredKeys = []string{
	domain.FieldCompany,
	domain.FieldPosition,
	domain.FieldStartDate,
	domain.FieldDuties,
}

// DocumentRequiredKeys are the uploads required for verification.
var DocumentRequiredKeys = []string{
	domain.FieldPassportCopy,
	domain.FieldAlienRegCard,
	domain.FieldResidenceProof,
}
