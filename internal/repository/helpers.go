package repository

import (
	"database/sql"
	"time"
)

// Every timestamp column holds UTC RFC3339 text.
const timeLayout = time.RFC3339

// submittedAtFromColumn reads an optional timestamp column. NULL, empty or
// unparsable text means the applicant has not submitted.
func submittedAtFromColumn(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// submittedAtColumn is the inverse of submittedAtFromColumn.
func submittedAtColumn(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// updatedAtNow stamps a row write.
func updatedAtNow() string {
	return time.Now().UTC().Format(timeLayout)
}
