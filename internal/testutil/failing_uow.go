package testutil

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/leadpipe/internal/db"
)

// FailOnNthExecUoW runs each transaction like the real unit of work, except
// that write number FailOn (counted from 1, reads excluded) returns Err.
// Services under test then exercise their rollback path at a chosen step.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

var _ db.UnitOfWork = (*FailOnNthExecUoW)(nil)

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn db.TxFunc) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return db.RunInTx(ctx, tx, &execFailer{DBTX: tx, failOn: u.FailOn, err: u.Err}, fn)
}

type execFailer struct {
	db.DBTX
	execs  int32
	failOn int32
	err    error
}

func (e *execFailer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.execs++
	if e.execs == e.failOn {
		return nil, fmt.Errorf("exec %d: %w", e.execs, e.err)
	}
	return e.DBTX.ExecContext(ctx, query, args...)
}
