package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what repositories query through: the *sql.DB itself, or a *sql.Tx
// when the repository was built inside WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TxFunc does the work of one transaction. Repositories that must see each
// other's writes are built on tx.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork commits everything fn writes, or nothing.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return RunInTx(ctx, tx, tx, fn)
}

// RunInTx calls fn with conn and then settles tx: commit when fn succeeds,
// rollback when it fails or panics. conn is normally tx itself; tests pass a
// wrapper around it.
func RunInTx(ctx context.Context, tx *sql.Tx, conn DBTX, fn TxFunc) error {
	settled := false
	defer func() {
		// fn panicked.
		if !settled {
			_ = tx.Rollback()
		}
	}()

	err := fn(ctx, conn)
	settled = true
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
