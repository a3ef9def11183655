package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionRepo_RoundTripsState(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	a := testutil.NewTestApplicant("Ana")
	require.NoError(t, NewSQLiteApplicantRepo(database).Create(ctx, a))
	repo := NewSQLiteSubmissionRepo(database)

	sub := &domain.Submission{
		ID:           uuid.New().String(),
		ApplicantID:  a.ID,
		State:        testutil.DomesticState(),
		TotalPercent: 100,
		SubmittedAt:  time.Date(2026, 10, 2, 8, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, sub))

	list, err := repo.ListByApplicant(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, sub.State, list[0].State)
	assert.Equal(t, 100, list[0].TotalPercent)
	assert.True(t, sub.SubmittedAt.Equal(list[0].SubmittedAt))
}
