package memberrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/test"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
)

const bookID int64 = 7

func TestGetRole(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      domain.Role
		wantErr   error
	}{
		{
			name: "Owner",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetRoleQuery).WithArgs(bookID, "alice").
					WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("owner"))
			},
			want: domain.RoleOwner,
		},
		{
			name: "NotMember",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetRoleQuery).WithArgs(bookID, "alice").
					WillReturnRows(sqlmock.NewRows([]string{"role"}))
			},
			wantErr: domain.ErrMembershipNotFound,
		},
		{
			name: "DriverError",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetRoleQuery).WithArgs(bookID, "alice").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock := test.NewSQLMock(t)
			tc.setupMock(mock)

			got, err := NewRepoPGS(db).GetRole(context.Background(), bookID, "alice")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("GetRole() returned error %v, want %v", err, tc.wantErr)
			}

			if got != tc.want {
				t.Errorf("GetRole() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAdd(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "OK",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(AddQuery).WithArgs(bookID, "bob", "member").
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "Duplicate",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(AddQuery).WithArgs(bookID, "bob", "member").
					WillReturnError(&pq.Error{Code: "23505", Constraint: "book_members_uq"})
			},
			wantErr: domain.ErrMembershipExists,
		},
		{
			name: "MissingBook",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(AddQuery).WithArgs(bookID, "bob", "member").
					WillReturnError(&pq.Error{Code: "23503", Constraint: "book_members_book_id_fkey"})
			},
			wantErr: domain.ErrBookNotFound,
		},
		{
			name: "DriverError",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(AddQuery).WithArgs(bookID, "bob", "member").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: errorspkg.ErrInternal,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock := test.NewSQLMock(t)
			tc.setupMock(mock)

			err := NewRepoPGS(db).Add(context.Background(), bookID, "bob", domain.RoleMember)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Add() returned error %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRemoveMissingRowIsNotAnError(t *testing.T) {
	t.Parallel()

	db, mock := test.NewSQLMock(t)
	mock.ExpectExec(RemoveQuery).WithArgs(bookID, "bob").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewRepoPGS(db).Remove(context.Background(), bookID, "bob"); err != nil {
		t.Errorf("Remove() returned error: %v", err)
	}
}

func TestDeleteByBook(t *testing.T) {
	t.Parallel()

	db, mock := test.NewSQLMock(t)
	mock.ExpectExec(DeleteByBookQuery).WithArgs(bookID).WillReturnError(errors.New("connection reset"))

	err := NewRepoPGS(db).DeleteByBook(context.Background(), bookID)
	if !errors.Is(err, errorspkg.ErrInternal) {
		t.Errorf("DeleteByBook() returned error %v, want %v", err, errorspkg.ErrInternal)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	joined := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)

	db, mock := test.NewSQLMock(t)
	mock.ExpectQuery(ListQuery).WithArgs(bookID).
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "user_uid", "role", "created_at"}).
			AddRow(bookID, "alice", "owner", joined).
			AddRow(bookID, "bob", "member", nil))

	got, err := NewRepoPGS(db).List(context.Background(), bookID)
	if err != nil {
		t.Fatalf("List() returned error: %v", err)
	}

	want := []domain.Membership{
		{BookID: bookID, UserUID: "alice", Role: domain.RoleOwner, CreatedAt: &joined},
		{BookID: bookID, UserUID: "bob", Role: domain.RoleMember},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() returned unexpected diff (-want +got):\n%s", diff)
	}
}
