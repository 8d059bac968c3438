package dbpkg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// ExecTx runs fn within a single database transaction.
//
// The transaction is committed only when fn returns nil. Any error returned by fn
// is passed through unchanged after the rollback.
func ExecTx(ctx context.Context, db TxBeginner, fn func(tx *sql.Tx) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Msg("begin transaction")
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Msg("rollback transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("commit transaction")
		return errorspkg.ErrInternal
	}

	return nil
}

// RunInTx runs fn in a new transaction started on conn. When conn is nil, db is
// assumed to be an open transaction already and fn runs on it directly.
func RunInTx(ctx context.Context, conn TxBeginner, db SQLInterface, fn func(q SQLInterface) error) error {
	if conn == nil {
		return fn(db)
	}

	return ExecTx(ctx, conn, func(tx *sql.Tx) error {
		return fn(tx)
	})
}
