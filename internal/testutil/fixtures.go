package testutil

import (
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/google/uuid"
)

type ApplicantOption func(*domain.Applicant)

func WithSubmittedAt(t time.Time) ApplicantOption {
	return func(a *domain.Applicant) { a.SubmittedAt = &t }
}

func WithTotalPercent(p int) ApplicantOption {
	return func(a *domain.Applicant) { a.TotalPercent = p }
}

// NewTestApplicant builds an applicant with a fresh id.
func NewTestApplicant(name string, opts ...ApplicantOption) *domain.Applicant {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Applicant{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DomesticState returns a domestic applicant's state with every step filled
// for an E-9 classification with no remote schema.
func DomesticState() domain.WizardState {
	return domain.WizardState{
		Residency: domain.ResidencyStep{Category: domain.ResidencyDomestic},
		Personal: domain.PersonalStep{
			FullName:    "Ana Reyes",
			BirthDate:   "1994-03-12",
			Nationality: "PH",
			Phone:       "+82 10 5555 0101",
			Email:       "ana@example.com",
			AlienRegNo:  "940312-6000000",
			Address:     "12 Sejong-daero, Seoul",
		},
		Visa: domain.VisaStep{VisaCode: "E-9", VisaExpiry: "2027-01-31"},
		Delta: domain.DeltaStep{Values: map[string]string{
			"employerName":     "Hanul Foods",
			"industry":         "manufacturing",
			"workplaceChanges": "1",
		}},
		Education: domain.EducationStep{Entries: []domain.EducationEntry{{
			School: "Cebu Technical University", Degree: "BSc", Major: "Food Technology", GraduationYear: "2016",
		}}},
		Experience: domain.ExperienceStep{NoExperience: true},
		Language:   domain.LanguageStep{LocalLevel: "TOPIK 3", Certificate: "TOPIK", EnglishLevel: "B2"},
		Documents: domain.DocumentsStep{
			PassportCopy: "passport.pdf", AlienRegCard: "arc.pdf", ResidenceProof: "lease.pdf",
		},
	}
}

// OverseasState returns an overseas applicant's state with every step filled.
func OverseasState() domain.WizardState {
	s := DomesticState()
	s.Residency.Category = domain.ResidencyOverseas
	s.Personal.AlienRegNo = ""
	s.Personal.Address = ""
	s.Personal.PassportNo = "P1234567"
	s.Personal.CurrentCountry = "PH"
	s.Visa.VisaExpiry = ""
	s.Visa.DesiredEntryDate = "2027-03-01"
	s.Documents = domain.DocumentsStep{}
	return s
}
