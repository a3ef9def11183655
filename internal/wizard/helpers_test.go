package wizard

import "github.com/alexanderramin/crossjob/internal/domain"

var e9Fields = []domain.FieldDescriptor{
	{Key: "employerName", Label: "Employer", Kind: domain.FieldText, Required: true},
	{Key: "contractMonths", Label: "Contract length (months)", Kind: domain.FieldNumber, Required: true},
	{Key: "sectorNote", Label: "Notes", Kind: domain.FieldText},
}

// completeDomestic returns a domestic applicant with every step at 100%.
func completeDomestic() domain.WizardState {
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
		Delta: domain.DeltaStep{
			Values: map[string]string{"employerName": "Hanul Foods", "contractMonths": "24"},
			Schema: domain.DeltaSchema{Code: "E-9", Status: domain.SchemaReady, Fields: e9Fields},
		},
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

// completeOverseas returns an overseas applicant with every step at 100%.
func completeOverseas() domain.WizardState {
	s := completeDomestic()
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
