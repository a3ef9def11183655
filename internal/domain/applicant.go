package domain

import "time"

type Applicant struct {
	ID   string
	Name string
	// TotalPercent caches the last computed aggregate completion.
	TotalPercent int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	SubmittedAt  *time.Time
}

// IsSubmitted reports whether the profile has been handed off at least once.
func (a *Applicant) IsSubmitted() bool {
	return a.SubmittedAt != nil
}

// Submission is one hand-off of a complete profile to the platform.
type Submission struct {
	ID           string
	ApplicantID  string
	State        WizardState
	TotalPercent int
	SubmittedAt  time.Time
}
