// Package bookrepo manages repository layer of books.
package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/expenserepo"
	"github.com/go-petr/pet-budget/internal/memberrepo"
	"github.com/go-petr/pet-budget/pkg/dbpkg"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates book repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn dbpkg.TxBeginner
}

// NewTxRepoPGS returns book RepoPGS bound to an open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns book RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

// CreateQuery inserts into books table.
const CreateQuery = `
INSERT INTO books (owner_uid, name)
VALUES ($1, $2)
RETURNING id, owner_uid, name, created_at
`

// Create inserts the book together with the owner membership in one transaction.
func (r *RepoPGS) Create(ctx context.Context, ownerUID, name string) (domain.Book, error) {
	l := zerolog.Ctx(ctx)

	var b domain.Book

	err := dbpkg.RunInTx(ctx, r.conn, r.db, func(q dbpkg.SQLInterface) error {
		row := q.QueryRowContext(ctx, CreateQuery, ownerUID, name)

		err := row.Scan(&b.ID, &b.OwnerUID, &b.Name, &b.CreatedAt)
		if err != nil {
			l.Error().Err(err).Str("owner_uid", ownerUID).Send()

			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Constraint == "books_name_check" {
				return domain.ErrEmptyBookName
			}

			return errorspkg.ErrInternal
		}

		return memberrepo.NewRepoPGS(q).Add(ctx, b.ID, ownerUID, domain.RoleOwner)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBookName) {
			return domain.Book{}, err
		}

		return domain.Book{}, errorspkg.ErrInternal
	}

	return b, nil
}

// GetQuery selects the book by id.
const GetQuery = `
SELECT id, owner_uid, name, created_at
FROM books
WHERE id = $1
`

// Get returns the book with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Book, error) {
	l := zerolog.Ctx(ctx)

	var b domain.Book

	err := r.db.QueryRowContext(ctx, GetQuery, id).Scan(&b.ID, &b.OwnerUID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Book{}, domain.ErrBookNotFound
		}

		l.Error().Err(err).Int64("book_id", id).Send()

		return domain.Book{}, errorspkg.ErrInternal
	}

	return b, nil
}

// ListByMemberQuery selects the books the user holds a membership in.
const ListByMemberQuery = `
SELECT b.id, b.name, b.owner_uid, m.role
FROM books b
JOIN book_members m ON m.book_id = b.id
WHERE m.user_uid = $1
ORDER BY b.id
`

// ListByMember returns the books of the user joined through memberships.
func (r *RepoPGS) ListByMember(ctx context.Context, uid string) ([]domain.BookWithRole, error) {
	return r.list(ctx, ListByMemberQuery, uid)
}

// ListByOwnerQuery selects the books owned by the user.
const ListByOwnerQuery = `
SELECT id, name, owner_uid, 'owner'
FROM books
WHERE owner_uid = $1
ORDER BY id
`

// ListByOwner returns the books owned by the user.
func (r *RepoPGS) ListByOwner(ctx context.Context, uid string) ([]domain.BookWithRole, error) {
	return r.list(ctx, ListByOwnerQuery, uid)
}

func (r *RepoPGS) list(ctx context.Context, query, uid string) ([]domain.BookWithRole, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, uid)
	if err != nil {
		l.Error().Err(err).Str("uid", uid).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	var result []domain.BookWithRole

	for rows.Next() {
		var (
			b    domain.BookWithRole
			role string
		)

		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerUID, &role); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		b.Role = domain.Role(role)
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return result, nil
}

// RenameQuery renames the book only when it is owned by the given user.
const RenameQuery = `
UPDATE books
SET name = $3
WHERE id = $1 AND owner_uid = $2
RETURNING id, owner_uid, name, created_at
`

// Rename updates the name of the book owned by ownerUID.
func (r *RepoPGS) Rename(ctx context.Context, ownerUID string, id int64, name string) (domain.Book, error) {
	l := zerolog.Ctx(ctx)

	var b domain.Book

	err := r.db.QueryRowContext(ctx, RenameQuery, id, ownerUID, name).Scan(&b.ID, &b.OwnerUID, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			l.Info().Int64("book_id", id).Str("owner_uid", ownerUID).Msg("rename matched no book")
			return domain.Book{}, domain.ErrBookNotFound
		}

		l.Error().Err(err).Int64("book_id", id).Send()

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "books_name_check" {
			return domain.Book{}, domain.ErrEmptyBookName
		}

		return domain.Book{}, errorspkg.ErrInternal
	}

	return b, nil
}

// DeleteQuery deletes the book only when it is owned by the given user.
const DeleteQuery = `
DELETE FROM books
WHERE id = $1 AND owner_uid = $2
`

// Delete removes the book with its expenses and memberships in one transaction.
func (r *RepoPGS) Delete(ctx context.Context, ownerUID string, id int64) error {
	l := zerolog.Ctx(ctx)

	return dbpkg.RunInTx(ctx, r.conn, r.db, func(q dbpkg.SQLInterface) error {
		if err := expenserepo.NewTxRepoPGS(q).DeleteByBook(ctx, id); err != nil {
			return err
		}

		if err := memberrepo.NewRepoPGS(q).DeleteByBook(ctx, id); err != nil {
			return err
		}

		res, err := q.ExecContext(ctx, DeleteQuery, id, ownerUID)
		if err != nil {
			l.Error().Err(err).Int64("book_id", id).Send()
			return errorspkg.ErrInternal
		}

		n, err := res.RowsAffected()
		if err != nil {
			l.Error().Err(err).Send()
			return errorspkg.ErrInternal
		}

		if n == 0 {
			return domain.ErrBookNotFound
		}

		return nil
	})
}
