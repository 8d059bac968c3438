// Package memberrepo manages repository layer of book memberships.
package memberrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/dbpkg"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates membership repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns membership RepoPGS over a connection or a transaction.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// GetRoleQuery selects the role of the user in the book.
const GetRoleQuery = `
SELECT role
FROM book_members
WHERE book_id = $1 AND user_uid = $2
`

// GetRole returns the role of the user in the book.
func (r *RepoPGS) GetRole(ctx context.Context, bookID int64, uid string) (domain.Role, error) {
	l := zerolog.Ctx(ctx)

	var role string

	err := r.db.QueryRowContext(ctx, GetRoleQuery, bookID, uid).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrMembershipNotFound
		}

		l.Error().Err(err).Int64("book_id", bookID).Send()

		return "", errorspkg.ErrInternal
	}

	return domain.Role(role), nil
}

// AddQuery inserts into book_members table.
const AddQuery = `
INSERT INTO book_members (book_id, user_uid, role)
VALUES ($1, $2, $3)
`

// Add inserts a membership row.
//
// A duplicate (book, user) pair returns domain.ErrMembershipExists.
func (r *RepoPGS) Add(ctx context.Context, bookID int64, uid string, role domain.Role) error {
	l := zerolog.Ctx(ctx)

	_, err := r.db.ExecContext(ctx, AddQuery, bookID, uid, string(role))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "book_members_uq":
				l.Info().Err(err).Int64("book_id", bookID).Str("uid", uid).Msg("membership exists")
				return domain.ErrMembershipExists
			case "book_members_book_id_fkey":
				l.Warn().Err(err).Int64("book_id", bookID).Send()
				return domain.ErrBookNotFound
			}
		}

		l.Error().Err(err).Int64("book_id", bookID).Send()

		return errorspkg.ErrInternal
	}

	return nil
}

// RemoveQuery deletes a single membership.
const RemoveQuery = `
DELETE FROM book_members
WHERE book_id = $1 AND user_uid = $2
`

// Remove deletes the membership of the user. A missing row is not an error.
func (r *RepoPGS) Remove(ctx context.Context, bookID int64, uid string) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, RemoveQuery, bookID, uid); err != nil {
		l.Error().Err(err).Int64("book_id", bookID).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// DeleteByBookQuery deletes all memberships of a book.
const DeleteByBookQuery = `
DELETE FROM book_members
WHERE book_id = $1
`

// DeleteByBook deletes every membership of the book.
func (r *RepoPGS) DeleteByBook(ctx context.Context, bookID int64) error {
	l := zerolog.Ctx(ctx)

	if _, err := r.db.ExecContext(ctx, DeleteByBookQuery, bookID); err != nil {
		l.Error().Err(err).Int64("book_id", bookID).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// ListQuery selects memberships of a book in join order.
const ListQuery = `
SELECT book_id, user_uid, role, created_at
FROM book_members
WHERE book_id = $1
ORDER BY created_at ASC, id ASC
`

// List returns the memberships of the book ordered by creation time.
func (r *RepoPGS) List(ctx context.Context, bookID int64) ([]domain.Membership, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, ListQuery, bookID)
	if err != nil {
		l.Error().Err(err).Int64("book_id", bookID).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	var result []domain.Membership

	for rows.Next() {
		var (
			m         domain.Membership
			role      string
			createdAt sql.NullTime
		)

		if err := rows.Scan(&m.BookID, &m.UserUID, &role, &createdAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		m.Role = domain.Role(role)

		if createdAt.Valid {
			t := createdAt.Time
			m.CreatedAt = &t
		}

		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return result, nil
}
