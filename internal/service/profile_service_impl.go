package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/alexanderramin/crossjob/internal/wizard"
	"github.com/google/uuid"
)

type profileService struct {
	applicants  repository.ApplicantRepo
	steps       repository.ProfileStepRepo
	badges      repository.BadgeRepo
	submissions repository.SubmissionRepo
	uow         db.UnitOfWork
	publisher   events.Publisher
	observer    UseCaseObserver
}

func NewProfileService(
	applicants repository.ApplicantRepo,
	steps repository.ProfileStepRepo,
	badges repository.BadgeRepo,
	submissions repository.SubmissionRepo,
	uow db.UnitOfWork,
	publisher events.Publisher,
	observers ...UseCaseObserver,
) ProfileService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &profileService{
		applicants:  applicants,
		steps:       steps,
		badges:      badges,
		submissions: submissions,
		uow:         uow,
		publisher:   publisher,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *profileService) Persister(applicantID string) *StepPersister {
	return &StepPersister{applicantID: applicantID, uow: s.uow}
}

func (s *profileService) Load(ctx context.Context, applicantID string) (state domain.WizardState, err error) {
	start := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "load-profile", applicantID, start, fields, &err)

	if _, err = s.applicants.GetByID(ctx, applicantID); err != nil {
		return domain.WizardState{}, err
	}
	var rows map[domain.StepID][]byte
	rows, err = s.steps.ListByApplicant(ctx, applicantID)
	if err != nil {
		return domain.WizardState{}, err
	}
	fields["steps"] = len(rows)
	for id, payload := range rows {
		if err = domain.UnmarshalStep(&state, id, payload); err != nil {
			return domain.WizardState{}, err
		}
	}
	return state, nil
}

func (s *profileService) Submit(ctx context.Context, applicantID string, state domain.WizardState, c wizard.Completion) (sub *domain.Submission, err error) {
	start := time.Now()
	fields := map[string]any{"total_pct": c.TotalPercent}
	defer observe(ctx, s.observer, "submit-profile", applicantID, start, fields, &err)

	if c.TotalPercent < 100 {
		return nil, fmt.Errorf("%d%%: %w", c.TotalPercent, ErrIncomplete)
	}
	sub = &domain.Submission{
		ID:           uuid.New().String(),
		ApplicantID:  applicantID,
		State:        state.Clone(),
		TotalPercent: c.TotalPercent,
		SubmittedAt:  time.Now().UTC(),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txApplicants := repository.NewSQLiteApplicantRepo(tx)
		txSteps := repository.NewSQLiteProfileStepRepo(tx)
		txSubmissions := repository.NewSQLiteSubmissionRepo(tx)

		for _, id := range domain.StepOrder {
			payload, err := domain.MarshalStep(&sub.State, id)
			if err != nil {
				return err
			}
			if err := txSteps.Upsert(ctx, applicantID, id, payload); err != nil {
				return err
			}
		}
		if err := txSubmissions.Create(ctx, sub); err != nil {
			return err
		}
		if err := txApplicants.UpdateProgress(ctx, applicantID, c.TotalPercent); err != nil {
			return err
		}
		return txApplicants.MarkSubmitted(ctx, applicantID, sub.SubmittedAt)
	})
	if err != nil {
		return nil, err
	}

	pubErr := s.publisher.Publish(ctx, events.Event{
		Kind:         events.KindProfileSubmitted,
		ApplicantID:  applicantID,
		TotalPercent: c.TotalPercent,
		OccurredAt:   sub.SubmittedAt,
	})
	// The hand-off is committed; a lost notification is logged only.
	if pubErr != nil {
		fields["publish_error"] = pubErr.Error()
	}
	return sub, nil
}

func (s *profileService) Submissions(ctx context.Context, applicantID string) ([]*domain.Submission, error) {
	return s.submissions.ListByApplicant(ctx, applicantID)
}

func (s *profileService) Badges(ctx context.Context, applicantID string) ([]domain.Badge, error) {
	return s.badges.ListByApplicant(ctx, applicantID)
}

func (s *profileService) SetBadge(ctx context.Context, applicantID string, b domain.Badge) (err error) {
	start := time.Now()
	fields := map[string]any{"badge": string(b.ID), "status": string(b.Status)}
	defer observe(ctx, s.observer, "set-badge", applicantID, start, fields, &err)

	// Validate against a scratch gamification layer so the rules live in one place.
	if err = wizard.NewGamification(nil).SetExternal(b); err != nil {
		return err
	}
	if _, err = s.applicants.GetByID(ctx, applicantID); err != nil {
		return err
	}
	return s.badges.Set(ctx, applicantID, b)
}

// StepPersister saves one step at a time for one applicant. It implements
// wizard.Persister.
type StepPersister struct {
	applicantID string
	uow         db.UnitOfWork

	mu       sync.Mutex
	progress func() int
}

var _ wizard.Persister = (*StepPersister)(nil)

// TrackProgress makes every save also record the aggregate returned by fn.
func (p *StepPersister) TrackProgress(fn func() int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = fn
}

// ApplicantID returns the applicant this persister writes for.
func (p *StepPersister) ApplicantID() string { return p.applicantID }

func (p *StepPersister) Save(ctx context.Context, id domain.StepID, data domain.StepData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding step %s: %w", id, err)
	}

	p.mu.Lock()
	progress := p.progress
	p.mu.Unlock()

	return p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProfileStepRepo(tx).Upsert(ctx, p.applicantID, id, payload); err != nil {
			return err
		}
		if progress == nil {
			return nil
		}
		return repository.NewSQLiteApplicantRepo(tx).UpdateProgress(ctx, p.applicantID, progress())
	})
}
