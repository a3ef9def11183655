package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/events"
	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/alexanderramin/crossjob/internal/testutil"
	"github.com/stretchr/testify/require"
)

type repos struct {
	db          *sql.DB
	applicants  *repository.SQLiteApplicantRepo
	steps       *repository.SQLiteProfileStepRepo
	badges      *repository.SQLiteBadgeRepo
	submissions *repository.SQLiteSubmissionRepo
}

func setupRepos(t *testing.T) repos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repos{
		db:          database,
		applicants:  repository.NewSQLiteApplicantRepo(database),
		steps:       repository.NewSQLiteProfileStepRepo(database),
		badges:      repository.NewSQLiteBadgeRepo(database),
		submissions: repository.NewSQLiteSubmissionRepo(database),
	}
}

func (r repos) profileService(pub events.Publisher, observers ...UseCaseObserver) ProfileService {
	return NewProfileService(r.applicants, r.steps, r.badges, r.submissions, testutil.NewTestUoW(r.db), pub, observers...)
}

func (r repos) seedApplicant(t *testing.T, name string) *domain.Applicant {
	t.Helper()
	a := testutil.NewTestApplicant(name)
	require.NoError(t, r.applicants.Create(context.Background(), a))
	return a
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.events))
	for _, e := range o.events {
		out = append(out, e.Name)
	}
	return out
}
