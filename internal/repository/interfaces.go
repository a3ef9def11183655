package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
)

type ApplicantRepo interface {
	Create(ctx context.Context, a *domain.Applicant) error
	GetByID(ctx context.Context, id string) (*domain.Applicant, error)
	List(ctx context.Context) ([]*domain.Applicant, error)
	UpdateProgress(ctx context.Context, id string, totalPercent int) error
	MarkSubmitted(ctx context.Context, id string, at time.Time) error
}

// ProfileStepRepo stores one JSON payload per applicant and step.
type ProfileStepRepo interface {
	Upsert(ctx context.Context, applicantID string, stepID domain.StepID, payload []byte) error
	ListByApplicant(ctx context.Context, applicantID string) (map[domain.StepID][]byte, error)
}

// BadgeRepo stores externally controlled badge states.
type BadgeRepo interface {
	Set(ctx context.Context, applicantID string, b domain.Badge) error
	ListByApplicant(ctx context.Context, applicantID string) ([]domain.Badge, error)
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	ListByApplicant(ctx context.Context, applicantID string) ([]*domain.Submission, error)
}
