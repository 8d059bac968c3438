// Package expenserepo manages repository layer of expenses.
package expenserepo

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/dbpkg"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var columns = []string{
	"id", "book_id", "user_uid", "amount_cents", "currency", "description", "occurred_at", "created_at",
}

// RepoPGS facilitates expense repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn dbpkg.TxBeginner
}

// NewTxRepoPGS returns expense RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns expense RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// CreateQuery inserts into expenses table.
const CreateQuery = `
INSERT INTO expenses (
	book_id,
	user_uid,
	amount_cents,
	currency,
	description,
	occurred_at
) VALUES (
	$1, $2, $3, $4, $5, $6
) RETURNING id, created_at
`

// Create records the expense inside a transaction and returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	e := domain.Expense{
		BookID:      arg.BookID,
		UserUID:     arg.UserUID,
		AmountCents: arg.AmountCents,
		Currency:    arg.Currency,
		Description: arg.Description,
		OccurredAt:  arg.OccurredAt,
	}

	err := dbpkg.RunInTx(ctx, r.conn, r.db, func(q dbpkg.SQLInterface) error {
		row := q.QueryRowContext(ctx, CreateQuery,
			arg.BookID,
			arg.UserUID,
			arg.AmountCents,
			arg.Currency,
			nullString(arg.Description),
			arg.OccurredAt,
		)

		if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
			l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch pqErr.Constraint {
				case "expenses_book_id_fkey":
					return domain.ErrBookNotFound
				case "expenses_amount_cents_check":
					return domain.ErrInvalidAmount
				}
			}

			return errorspkg.ErrInternal
		}

		return nil
	})
	if err != nil {
		return domain.Expense{}, err
	}

	return e, nil
}

// ListQuery builds the select statement of the book's expenses for the filter.
func ListQuery(bookID int64, f domain.ExpenseFilter) sq.SelectBuilder {
	q := psql.Select(columns...).
		From("expenses").
		Where(sq.Eq{"book_id": bookID})

	switch {
	case f.From != nil || f.To != nil:
		if f.From != nil {
			q = q.Where(sq.GtOrEq{"occurred_at": *f.From})
		}

		if f.To != nil {
			q = q.Where(sq.Lt{"occurred_at": *f.To})
		}
	case len(f.Months) > 0:
		months := sq.Or{}

		for _, m := range f.Months {
			months = append(months, sq.And{
				sq.GtOrEq{"occurred_at": m.Start},
				sq.Lt{"occurred_at": m.End},
			})
		}

		q = q.Where(months)
	}

	return q.OrderBy("occurred_at DESC", "id DESC")
}

// List returns the book's expenses matching the filter, newest first.
func (r *RepoPGS) List(ctx context.Context, bookID int64, f domain.ExpenseFilter) ([]domain.Expense, error) {
	l := zerolog.Ctx(ctx)

	query, args, err := ListQuery(bookID, f).ToSql()
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Str("query", query).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	result := []domain.Expense{}

	for rows.Next() {
		var (
			e           domain.Expense
			description sql.NullString
		)

		err := rows.Scan(
			&e.ID,
			&e.BookID,
			&e.UserUID,
			&e.AmountCents,
			&e.Currency,
			&description,
			&e.OccurredAt,
			&e.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if description.Valid {
			e.Description = &description.String
		}

		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return result, nil
}

// UpdateQuery builds the update statement touching only the patched columns.
func UpdateQuery(bookID, id int64, p domain.ExpensePatch) sq.UpdateBuilder {
	q := psql.Update("expenses")

	if p.AmountCents.Set {
		q = q.Set("amount_cents", p.AmountCents.Value)
	}

	if p.Description.Set {
		q = q.Set("description", nullString(p.Description.Value))
	}

	if p.OccurredAt.Set {
		q = q.Set("occurred_at", p.OccurredAt.Value)
	}

	if p.Currency.Set {
		q = q.Set("currency", p.Currency.Value)
	}

	return q.Where(sq.Eq{"id": id}).Where(sq.Eq{"book_id": bookID})
}

// Update applies the patch to the expense of the book. A missing row is not an error.
func (r *RepoPGS) Update(ctx context.Context, bookID, id int64, p domain.ExpensePatch) error {
	l := zerolog.Ctx(ctx)

	query, args, err := UpdateQuery(bookID, id, p).ToSql()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		l.Error().Err(err).Str("query", query).Send()

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "expenses_amount_cents_check" {
			return domain.ErrInvalidAmount
		}

		return errorspkg.ErrInternal
	}

	return nil
}

// DeleteQuery deletes the expense of the book.
const DeleteQuery = `
DELETE FROM expenses
WHERE id = $1 AND book_id = $2
`

// Delete removes the expense of the book. A missing row is not an error.
func (r *RepoPGS) Delete(ctx context.Context, bookID, id int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, DeleteQuery, id, bookID); err != nil {
		l.Error().Err(err).Int64("book_id", bookID).Int64("id", id).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// DeleteByBookQuery deletes all expenses of a book.
const DeleteByBookQuery = `
DELETE FROM expenses
WHERE book_id = $1
`

// DeleteByBook removes every expense of the book.
func (r *RepoPGS) DeleteByBook(ctx context.Context, bookID int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, DeleteByBookQuery, bookID); err != nil {
		l.Error().Err(err).Int64("book_id", bookID).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}
