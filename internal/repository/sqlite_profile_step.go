package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/domain"
)

// SQLiteProfileStepRepo implements ProfileStepRepo using a SQLite database.
type SQLiteProfileStepRepo struct {
	db db.DBTX
}

func NewSQLiteProfileStepRepo(conn db.DBTX) *SQLiteProfileStepRepo {
	return &SQLiteProfileStepRepo{db: conn}
}

func (r *SQLiteProfileStepRepo) Upsert(ctx context.Context, applicantID string, stepID domain.StepID, payload []byte) error {
	query := `INSERT INTO profile_steps (applicant_id, step_id, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(applicant_id, step_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, applicantID, string(stepID), string(payload), updatedAtNow()); err != nil {
		return fmt.Errorf("upserting step %s: %w", stepID, err)
	}
	return nil
}

func (r *SQLiteProfileStepRepo) ListByApplicant(ctx context.Context, applicantID string) (map[domain.StepID][]byte, error) {
	query := `SELECT step_id, payload FROM profile_steps WHERE applicant_id = ?`
	rows, err := r.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("listing profile steps: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.StepID][]byte)
	for rows.Next() {
		var stepID, payload string
		if err := rows.Scan(&stepID, &payload); err != nil {
			return nil, fmt.Errorf("scanning profile step: %w", err)
		}
		out[domain.StepID(stepID)] = []byte(payload)
	}
	return out, rows.Err()
}
