package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/crossjob/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantService_CreateTrimsName(t *testing.T) {
	r := setupRepos(t)
	svc := NewApplicantService(r.applicants)
	ctx := context.Background()

	a, err := svc.Create(ctx, "  Ana Reyes ")
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Ana Reyes", a.Name)

	got, err := svc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", got.Name)
	assert.Zero(t, got.TotalPercent)
	assert.False(t, got.IsSubmitted())
}

func TestApplicantService_CreateRejectsBlankName(t *testing.T) {
	r := setupRepos(t)
	svc := NewApplicantService(r.applicants)

	_, err := svc.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNameRequired)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApplicantService_GetUnknown(t *testing.T) {
	r := setupRepos(t)
	svc := NewApplicantService(r.applicants)

	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplicantService_List(t *testing.T) {
	r := setupRepos(t)
	svc := NewApplicantService(r.applicants)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Budi", "Chen"} {
		_, err := svc.Create(ctx, name)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
