package domain

import "fmt"

// StepData is implemented by every per-step slice of WizardState.
type StepData interface {
	StepID() StepID
}

// WizardState holds one record per step. The engine owns it; renderers only
// see copies and write back through the engine's update path.
type WizardState struct {
	Residency  ResidencyStep  `json:"residency"`
	Personal   PersonalStep   `json:"personal"`
	Visa       VisaStep       `json:"visa"`
	Delta      DeltaStep      `json:"delta"`
	Education  EducationStep  `json:"education"`
	Experience ExperienceStep `json:"experience"`
	Language   LanguageStep   `json:"language"`
	Documents  DocumentsStep  `json:"documents"`
}

// Slot returns a pointer to the slice owned by the given step.
func (s *WizardState) Slot(id StepID) (StepData, error) {
	switch id {
	case StepResidency:
		return &s.Residency, nil
	case StepPersonal:
		return &s.Personal, nil
	case StepVisa:
		return &s.Visa, nil
	case StepDelta:
		return &s.Delta, nil
	case StepEducation:
		return &s.Education, nil
	case StepExperience:
		return &s.Experience, nil
	case StepLanguage:
		return &s.Language, nil
	case StepDocuments:
		return &s.Documents, nil
	default:
		return nil, fmt.Errorf("step %q: %w", id, ErrUnknownStep)
	}
}

// Clone returns a deep copy; slices and maps are not shared with s.
func (s WizardState) Clone() WizardState {
	out := s
	if s.Delta.Values != nil {
		out.Delta.Values = make(map[string]string, len(s.Delta.Values))
		for k, v := range s.Delta.Values {
			out.Delta.Values[k] = v
		}
	}
	out.Delta.Schema.Fields = append([]FieldDescriptor(nil), s.Delta.Schema.Fields...)
	out.Education.Entries = append([]EducationEntry(nil), s.Education.Entries...)
	out.Experience.Entries = append([]ExperienceEntry(nil), s.Experience.Entries...)
	return out
}

// FieldResidency is the key of the residency category answer.
const FieldResidency = "residencyCategory"

type ResidencyStep struct {
	Category ResidencyCategory `json:"category"`
}

func (ResidencyStep) StepID() StepID { return StepResidency }

// Personal field keys.
const (
	FieldFullName       = "fullName"
	FieldBirthDate      = "birthDate"
	FieldNationality    = "nationality"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldAlienRegNo     = "alienRegNo"
	FieldAddress        = "address"
	FieldPassportNo     = "passportNo"
	FieldCurrentCountry = "currentCountry"
)

type PersonalStep struct {
	FullName       string `json:"fullName,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	AlienRegNo     string `json:"alienRegNo,omitempty"`
	Address        string `json:"address,omitempty"`
	PassportNo     string `json:"passportNo,omitempty"`
	CurrentCountry string `json:"currentCountry,omitempty"`
}

func (PersonalStep) StepID() StepID { return StepPersonal }

func (p PersonalStep) Values() map[string]string {
	return map[string]string{
		FieldFullName:       p.FullName,
		FieldBirthDate:      p.BirthDate,
		FieldNationality:    p.Nationality,
		FieldPhone:          p.Phone,
		FieldEmail:          p.Email,
		FieldAlienRegNo:     p.AlienRegNo,
		FieldAddress:        p.Address,
		FieldPassportNo:     p.PassportNo,
		FieldCurrentCountry: p.CurrentCountry,
	}
}

// Visa field keys.
const (
	FieldVisaCode         = "visaCode"
	FieldVisaExpiry       = "visaExpiry"
	FieldDesiredEntryDate = "desiredEntryDate"
)

type VisaStep struct {
	VisaCode         string `json:"visaCode,omitempty"`
	VisaExpiry       string `json:"visaExpiry,omitempty"`
	DesiredEntryDate string `json:"desiredEntryDate,omitempty"`
}

func (VisaStep) StepID() StepID { return StepVisa }

func (v VisaStep) Values() map[string]string {
	return map[string]string{
		FieldVisaCode:         v.VisaCode,
		FieldVisaExpiry:       v.VisaExpiry,
		FieldDesiredEntryDate: v.DesiredEntryDate,
	}
}

// DeltaStep holds answers to the classification-specific fields. Schema is
// runtime bookkeeping for the field list in effect and is never persisted.
type DeltaStep struct {
	Values map[string]string `json:"values,omitempty"`
	Schema DeltaSchema       `json:"-"`
}

func (DeltaStep) StepID() StepID { return StepDelta }

// DeltaSchema tracks which classification code the current field list was
// requested for and where that request stands.
type DeltaSchema struct {
	Code   string
	Status SchemaStatus
	Fields []FieldDescriptor
	Notice string

	// HeldPercent is the DELTA score frozen while a load is in flight.
	HeldPercent int
}

// Education entry keys.
const (
	FieldSchool         = "school"
	FieldDegree         = "degree"
	FieldMajor          = "major"
	FieldGraduationYear = "graduationYear"
)

type EducationEntry struct {
	School         string `json:"school,omitempty"`
	Degree         string `json:"degree,omitempty"`
	Major          string `json:"major,omitempty"`
	GraduationYear string `json:"graduationYear,omitempty"`
}

func (e EducationEntry) Values() map[string]string {
	return map[string]string{
		FieldSchool:         e.School,
		FieldDegree:         e.Degree,
		FieldMajor:          e.Major,
		FieldGraduationYear: e.GraduationYear,
	}
}

type EducationStep struct {
	Entries []EducationEntry `json:"entries,omitempty"`
}

func (EducationStep) StepID() StepID { return StepEducation }

// AddEntry appends an empty entry and returns its index.
func (e *EducationStep) AddEntry() int {
	e.Entries = append(e.Entries, EducationEntry{})
	return len(e.Entries) - 1
}

// RemoveEntry removes the entry at i. Out-of-range indexes are ignored.
func (e *EducationStep) RemoveEntry(i int) {
	if i < 0 || i >= len(e.Entries) {
		return
	}
	e.Entries = append(e.Entries[:i], e.Entries[i+1:]...)
}

// Experience entry keys.
const (
	FieldCompany   = "company"
	FieldPosition  = "position"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldDuties    = "duties"
)

type ExperienceEntry struct {
	Company   string `json:"company,omitempty"`
	Position  string `json:"position,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Duties    string `json:"duties,omitempty"`
}

func (e ExperienceEntry) Values() map[string]string {
	return map[string]string{
		FieldCompany:   e.Company,
		FieldPosition:  e.Position,
		FieldStartDate: e.StartDate,
		FieldEndDate:   e.EndDate,
		FieldDuties:    e.Duties,
	}
}

type ExperienceStep struct {
	NoExperience bool              `json:"noExperience,omitempty"`
	Entries      []ExperienceEntry `json:"entries,omitempty"`
}

func (ExperienceStep) StepID() StepID { return StepExperience }

// AddEntry appends an empty entry and returns its index. Adding an entry
// withdraws the no-experience opt-out.
func (e *ExperienceStep) AddEntry() int {
	e.NoExperience = false
	e.Entries = append(e.Entries, ExperienceEntry{})
	return len(e.Entries) - 1
}

// SetNoExperience toggles the opt-out. Opting out discards every entry.
func (e *ExperienceStep) SetNoExperience(v bool) {
	e.NoExperience = v
	if v {
		e.Entries = nil
	}
}

// RemoveEntry removes the entry at i. Out-of-range indexes are ignored.
func (e *ExperienceStep) RemoveEntry(i int) {
	if i < 0 || i >= len(e.Entries) {
		return
	}
	e.Entries = append(e.Entries[:i], e.Entries[i+1:]...)
}

// Language field keys.
const (
	FieldLocalLevel   = "localLevel"
	FieldCertificate  = "certificate"
	FieldEnglishLevel = "englishLevel"
)

type LanguageStep struct {
	LocalLevel   string `json:"localLevel,omitempty"`
	Certificate  string `json:"certificate,omitempty"`
	EnglishLevel string `json:"englishLevel,omitempty"`
}

func (LanguageStep) StepID() StepID { return StepLanguage }

// Document field keys.
const (
	FieldPassportCopy   = "passportCopy"
	FieldAlienRegCard   = "alienRegCard"
	FieldResidenceProof = "residenceProof"
)

// DocumentsStep holds file references produced by the upload collaborator.
type DocumentsStep struct {
	PassportCopy   string `json:"passportCopy,omitempty"`
	AlienRegCard   string `json:"alienRegCard,omitempty"`
	ResidenceProof string `json:"residenceProof,omitempty"`
}

func (DocumentsStep) StepID() StepID { return StepDocuments }

func (d DocumentsStep) Values() map[string]string {
	return map[string]string{
		FieldPassportCopy:   d.PassportCopy,
		FieldAlienRegCard:   d.AlienRegCard,
		FieldResidenceProof: d.ResidenceProof,
	}
}
