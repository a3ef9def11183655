package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/crossjob/internal/db"
)

// NewTestDB opens a private in-memory crossjob database with every
// migration applied. Each call gets empty applicant, step, badge and
// submission tables; the handle is closed when t finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("opening crossjob test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// NewTestUoW wraps database in the transaction runner ProfileService uses
// for saves and submissions.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
