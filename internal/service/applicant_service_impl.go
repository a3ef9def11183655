package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/google/uuid"
)

type applicantService struct {
	applicants repository.ApplicantRepo
}

func NewApplicantService(applicants repository.ApplicantRepo) ApplicantService {
	return &applicantService{applicants: applicants}
}

func (s *applicantService) Create(ctx context.Context, name string) (*domain.Applicant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := time.Now().UTC()
	a := &domain.Applicant{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.applicants.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *applicantService) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	return s.applicants.GetByID(ctx, id)
}

func (s *applicantService) List(ctx context.Context) ([]*domain.Applicant, error) {
	return s.applicants.List(ctx)
}
