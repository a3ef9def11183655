package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/crossjob/internal/db"
)

// FailingUoW runs transactions against DB and makes every write whose
// SQL starts with Statement fail with Err, so the transaction rolls back.
// Statement is matched case-insensitively after trimming, e.g.
// "UPDATE applicants" or "INSERT INTO submissions".
type FailingUoW struct {
	DB        *sql.DB
	Statement string
	Err       error

	mu    sync.Mutex
	execs []string
}

func (u *FailingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(ctx, &failingTx{DBTX: tx, uow: u}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Execs returns the statements attempted so far, failed ones included.
func (u *FailingUoW) Execs() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.execs...)
}

func (u *FailingUoW) record(query string) bool {
	q := strings.Join(strings.Fields(query), " ")
	u.mu.Lock()
	defer u.mu.Unlock()
	u.execs = append(u.execs, q)
	return u.Statement != "" && strings.HasPrefix(strings.ToUpper(q), strings.ToUpper(u.Statement))
}

type failingTx struct {
	db.DBTX
	uow *FailingUoW
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.record(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
