package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/crossjob/internal/db"
	"github.com/alexanderramin/crossjob/internal/domain"
)

// SQLiteBadgeRepo implements BadgeRepo using a SQLite database.
type SQLiteBadgeRepo struct {
	db db.DBTX
}

func NewSQLiteBadgeRepo(conn db.DBTX) *SQLiteBadgeRepo {
	return &SQLiteBadgeRepo{db: conn}
}

func (r *SQLiteBadgeRepo) Set(ctx context.Context, applicantID string, b domain.Badge) error {
	query := `INSERT INTO applicant_badges (applicant_id, badge_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(applicant_id, badge_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, applicantID, string(b.ID), string(b.Status), updatedAtNow()); err != nil {
		return fmt.Errorf("setting badge %s: %w", b.ID, err)
	}
	return nil
}

// ListByApplicant returns stored badges in display order. Badges that were
// never set are omitted.
func (r *SQLiteBadgeRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Badge, error) {
	query := `SELECT badge_id, status FROM applicant_badges WHERE applicant_id = ?`
	rows, err := r.db.QueryContext(ctx, query, applicantID)
	if err != nil {
		return nil, fmt.Errorf("listing badges: %w", err)
	}
	defer rows.Close()

	stored := make(map[domain.BadgeID]domain.BadgeStatus)
	for rows.Next() {
		var id, status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, fmt.Errorf("scanning badge: %w", err)
		}
		stored[domain.BadgeID(id)] = domain.BadgeStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []domain.Badge
	for _, id := range domain.BadgeOrder {
		if status, ok := stored[id]; ok {
			out = append(out, domain.Badge{ID: id, Status: status})
		}
	}
	return out, nil
}
