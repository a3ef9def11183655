package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/domain"
)

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	payload, err := json.Marshal(s.State)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}
	query := `INSERT INTO submissions (id, applicant_id, payload, total_pct, submitted_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.ApplicantID,
		string(payload),
		s.TotalPercent,
		s.SubmittedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) ListByApplicant(ctx context.Context, applicantID string) ([]*domain.Submission, error) {
	query := `SELECT id, applicant_id, payload, total_pct, submitted_at
		FROM submissions WHERE applicant_id = ? ORDER BY submitted_at, id`
	rows, err := r.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Submission
	for rows.Next() {
		var s domain.Submission
		var payload, submittedAt string
		if err := rows.Scan(&s.ID, &s.ApplicantID, &payload, &s.TotalPercent, &submittedAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &s.State); err != nil {
			return nil, fmt.Errorf("decoding submission %s: %w", s.ID, err)
		}
		s.SubmittedAt, _ = time.Parse(timeLayout, submittedAt)
		out = append(out, &s)
	}
	return out, rows.Err()
}
