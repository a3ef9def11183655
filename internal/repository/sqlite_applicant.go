package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/domain"
)

// SQLiteApplicantRepo implements ApplicantRepo using a SQLite database.
type SQLiteApplicantRepo struct {
	db db.DBTX
}

func NewSQLiteApplicantRepo(conn db.DBTX) *SQLiteApplicantRepo {
	return &SQLiteApplicantRepo{db: conn}
}

const applicantColumns = `id, name, total_pct, created_at, updated_at, submitted_at`

func (r *SQLiteApplicantRepo) Create(ctx context.Context, a *domain.Applicant) error {
	query := `INSERT INTO applicants (` + applicantColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		a.TotalPercent,
		a.CreatedAt.UTC().Format(timeLayout),
		a.UpdatedAt.UTC().Format(timeLayout),
		submittedAtColumn(a.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting applicant: %w", err)
	}
	return nil
}

func (r *SQLiteApplicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = ?`
	a, err := scanApplicant(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}
	return a, err
}

func (r *SQLiteApplicantRepo) List(ctx context.Context) ([]*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing applicants: %w", err)
	}
	defer rows.Close()

	var out []*domain.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteApplicantRepo) UpdateProgress(ctx context.Context, id string, totalPercent int) error {
	query := `UPDATE applicants SET total_pct = ?, updated_at = ? WHERE id = ?`
	return r.execOne(ctx, "updating applicant progress", id, query, totalPercent, updatedAtNow(), id)
}

func (r *SQLiteApplicantRepo) MarkSubmitted(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE applicants SET submitted_at = ?, updated_at = ? WHERE id = ?`
	ts := at.UTC().Format(timeLayout)
	return r.execOne(ctx, "marking applicant submitted", id, query, ts, ts, id)
}

func (r *SQLiteApplicantRepo) execOne(ctx context.Context, op, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanApplicant(s scanner) (*domain.Applicant, error) {
	var a domain.Applicant
	var createdAt, updatedAt string
	var submittedAt sql.NullString
	if err := s.Scan(&a.ID, &a.Name, &a.TotalPercent, &createdAt, &updatedAt, &submittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning applicant: %w", err)
	}
	a.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	a.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	a.SubmittedAt = submittedAtFromColumn(submittedAt)
	return &a, nil
}
