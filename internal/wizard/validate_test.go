package wizard

import (
	"testing"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidate_CompleteProfilePasses(t *testing.T) {
	s := completeDomestic()
	for _, id := range domain.StepOrder {
		assert.Empty(t, Validate(id, &s), "step %s", id)
	}
}

func TestValidate_ResidencyGate(t *testing.T) {
	var s domain.WizardState
	errs := Validate(domain.StepResidency, &s)
	assert.Contains(t, errs, domain.FieldResidency)
}

func TestValidate_MissingRequiredFieldsBlock(t *testing.T) {
	s := domain.WizardState{Residency: domain.ResidencyStep{Category: domain.ResidencyDomestic}}

	errs := Validate(domain.StepPersonal, &s)
	for _, k := range PersonalRequiredKeys(&s) {
		assert.Equal(t, "required", errs[k], k)
	}
	assert.NotContains(t, errs, domain.FieldPassportNo, "overseas-only key")

	errs = Validate(domain.StepVisa, &s)
	assert.Contains(t, errs, domain.FieldVisaCode)
	assert.Contains(t, errs, domain.FieldVisaExpiry)
	assert.NotContains(t, errs, domain.FieldDesiredEntryDate)

	assert.Contains(t, Validate(domain.StepEducation, &s), EntryKey(0, domain.FieldSchool))
	assert.Contains(t, Validate(domain.StepExperience, &s), EntryKey(0, domain.FieldCompany))
	assert.Len(t, Validate(domain.StepDocuments, &s), len(DocumentRequiredKeys))
}

func TestValidate_OnlyFirstEntryIsRequired(t *testing.T) {
	s := completeDomestic()
	s.Education.AddEntry()
	s.Experience = domain.ExperienceStep{Entries: []domain.ExperienceEntry{
		{Company: "Hanul Foods", Position: "Line worker", StartDate: "2020-05-01", Duties: "packing"},
		{},
	}}
	assert.Empty(t, Validate(domain.StepEducation, &s))
	assert.Empty(t, Validate(domain.StepExperience, &s))

	s.Education.Entries[0].Major = " "
	assert.Equal(t, ValidationErrors{EntryKey(0, domain.FieldMajor): "required"}, Validate(domain.StepEducation, &s))
}

func TestValidate_NoExperienceOptOutPasses(t *testing.T) {
	s := domain.WizardState{Experience: domain.ExperienceStep{NoExperience: true}}
	assert.Empty(t, Validate(domain.StepExperience, &s))
}

func TestValidate_OptionalFieldsDoNotBlock(t *testing.T) {
	s := completeDomestic()
	s.Delta.Values = map[string]string{"employerName": "Hanul Foods", "contractMonths": "24"}
	s.Language = domain.LanguageStep{}
	assert.Empty(t, Validate(domain.StepDelta, &s), "sectorNote is optional")
	assert.Empty(t, Validate(domain.StepLanguage, &s), "no language field is required on its own")
}

func TestValidate_DeltaRequiredFields(t *testing.T) {
	s := completeDomestic()
	delete(s.Delta.Values, "contractMonths")
	assert.Equal(t, ValidationErrors{"contractMonths": "required"}, Validate(domain.StepDelta, &s))
}

func TestValidate_PersonalFormats(t *testing.T) {
	s := completeDomestic()
	s.Personal.Email = "ana-at-example"
	s.Personal.Phone = "12"
	s.Personal.BirthDate = "12/03/1994"

	errs := Validate(domain.StepPersonal, &s)
	assert.Contains(t, errs, domain.FieldEmail)
	assert.Contains(t, errs, domain.FieldPhone)
	assert.Contains(t, errs, domain.FieldBirthDate)
}

func TestValidate_VisaRequiresCode(t *testing.T) {
	s := completeDomestic()
	s.Visa.VisaCode = " "
	errs := Validate(domain.StepVisa, &s)
	assert.Contains(t, errs, domain.FieldVisaCode)
}

func TestValidate_DeltaBlocksWhileSchemaNotSettled(t *testing.T) {
	s := completeDomestic()
	s.Delta.Schema = domain.DeltaSchema{Code: "E-9", Status: domain.SchemaLoading}
	assert.Contains(t, Validate(domain.StepDelta, &s), SchemaFieldKey)

	s.Delta.Schema = domain.DeltaSchema{Code: "E-7", Status: domain.SchemaReady}
	assert.Contains(t, Validate(domain.StepDelta, &s), SchemaFieldKey)

	s.Visa.VisaCode = ""
	assert.Contains(t, Validate(domain.StepDelta, &s), SchemaFieldKey)
}

func TestValidate_DeltaFailedSchemaDoesNotBlock(t *testing.T) {
	s := completeDomestic()
	s.Delta.Schema = domain.DeltaSchema{Code: "E-9", Status: domain.SchemaFailed, Notice: "offline"}
	assert.Empty(t, Validate(domain.StepDelta, &s))
}

func TestValidate_DeltaFieldKinds(t *testing.T) {
	s := completeDomestic()
	s.Delta.Schema.Fields = []domain.FieldDescriptor{
		{Key: "months", Kind: domain.FieldNumber},
		{Key: "start", Kind: domain.FieldDate},
		{Key: "sponsored", Kind: domain.FieldBoolean},
		{Key: "sector", Kind: domain.FieldSelect, Options: []string{"agriculture", "manufacturing"}},
		{Key: "note", Kind: domain.FieldText},
	}
	s.Delta.Values = map[string]string{
		"months":    "two",
		"start":     "soon",
		"sponsored": "maybe",
		"sector":    "fishing",
		"note":      "anything goes",
	}

	errs := Validate(domain.StepDelta, &s)
	assert.Len(t, errs, 4)
	assert.NotContains(t, errs, "note")

	s.Delta.Values = map[string]string{"months": "24", "start": "2027-01-01", "sponsored": "true", "sector": "agriculture"}
	assert.Empty(t, Validate(domain.StepDelta, &s))
}

func TestValidate_EducationYear(t *testing.T) {
	s := completeDomestic()
	s.Education.Entries = append(s.Education.Entries, domain.EducationEntry{GraduationYear: "16"})
	errs := Validate(domain.StepEducation, &s)
	assert.Equal(t, ValidationErrors{EntryKey(1, domain.FieldGraduationYear): "enter a four-digit year"}, errs)
}

func TestValidate_ExperienceDateOrder(t *testing.T) {
	s := domain.WizardState{Experience: domain.ExperienceStep{Entries: []domain.ExperienceEntry{
		{StartDate: "2020-05-01", EndDate: "2019-01-01"},
		{StartDate: "2020-05-01", EndDate: "2021-01-01"},
	}}}
	errs := Validate(domain.StepExperience, &s)
	assert.Contains(t, errs, EntryKey(0, domain.FieldEndDate))
	assert.NotContains(t, errs, EntryKey(1, domain.FieldEndDate))
}
