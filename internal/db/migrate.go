package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every statement in order. Statements are idempotent so
// the whole list runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS applicants (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		submitted_at TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS profile_steps (
		applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
		step_id      TEXT NOT NULL
		             CHECK(step_id IN ('residency','personal','visa','delta','education','experience','language','documents')),
		payload      TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (applicant_id, step_id)
	)`,

	`CREATE TABLE IF NOT EXISTS applicant_badges (
		applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
		badge_id     TEXT NOT NULL CHECK(badge_id IN ('identity','visa','education')),
		status       TEXT NOT NULL CHECK(status IN ('locked','pending','verified')),
		updated_at   TEXT NOT NULL,
		PRIMARY KEY (applicant_id, badge_id)
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id           TEXT PRIMARY KEY,
		applicant_id TEXT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
		payload      TEXT NOT NULL,
		total_pct    INTEGER NOT NULL,
		submitted_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_applicant ON submissions(applicant_id)`,

	`ALTER TABLE applicants ADD COLUMN total_pct INTEGER NOT NULL DEFAULT 0`,
}
