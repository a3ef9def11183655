package service

import (
	"context"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/wizard"
)

type ApplicantService interface {
	Create(ctx context.Context, name string) (*domain.Applicant, error)
	GetByID(ctx context.Context, id string) (*domain.Applicant, error)
	List(ctx context.Context) ([]*domain.Applicant, error)
}

// ProfileService persists wizard state and badges for one applicant at a time.
type ProfileService interface {
	// Persister returns the autosave collaborator for applicantID.
	Persister(applicantID string) *StepPersister
	// Load rebuilds the saved state; steps never saved stay zero.
	Load(ctx context.Context, applicantID string) (domain.WizardState, error)
	// Submit hands off a complete profile.
	Submit(ctx context.Context, applicantID string, state domain.WizardState, c wizard.Completion) (*domain.Submission, error)
	Submissions(ctx context.Context, applicantID string) ([]*domain.Submission, error)
	// Badges returns the externally controlled badges that have been set.
	Badges(ctx context.Context, applicantID string) ([]domain.Badge, error)
	SetBadge(ctx context.Context, applicantID string, b domain.Badge) error
}
