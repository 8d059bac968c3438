package userrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/test"
	"github.com/go-petr/pet-budget/pkg/errorspkg"
	"github.com/go-petr/pet-budget/pkg/passpkg"
	"github.com/go-petr/pet-budget/pkg/randompkg"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
)

var userColumns = []string{
	"username", "hashed_password", "display_name", "email", "password_changed_at", "created_at",
}

func randomUser(t *testing.T) domain.User {
	t.Helper()

	hashedPassword, err := passpkg.Hash(randompkg.String(10))
	if err != nil {
		t.Fatalf("passpkg.Hash() returned error: %v", err)
	}

	return test.RandomUser(hashedPassword)
}

func TestCreate(t *testing.T) {
	t.Parallel()

	user := randomUser(t)
	arg := domain.CreateUserParams{
		UID:            user.UID,
		HashedPassword: user.HashedPassword,
		DisplayName:    user.DisplayName,
		Email:          user.Email,
	}

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      domain.User
		wantErr   error
	}{
		{
			name: "OK",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(CreateQuery).
					WithArgs(arg.UID, arg.HashedPassword, arg.DisplayName, arg.Email).
					WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
						user.UID, user.HashedPassword, user.DisplayName, user.Email,
						user.PasswordChangedAt, user.CreatedAt,
					))
			},
			want: user,
		},
		{
			name: "DuplicateUID",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(CreateQuery).
					WithArgs(arg.UID, arg.HashedPassword, arg.DisplayName, arg.Email).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_pkey"})
			},
			wantErr: domain.ErrUIDAlreadyExists,
		},
		{
			name: "DuplicateEmail",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(CreateQuery).
					WithArgs(arg.UID, arg.HashedPassword, arg.DisplayName, arg.Email).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: domain.ErrEmailAlreadyExists,
		},
		{
			name: "DriverError",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(CreateQuery).
					WithArgs(arg.UID, arg.HashedPassword, arg.DisplayName, arg.Email).
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

			got, err := NewRepoPGS(db).Create(context.Background(), arg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Create(%+v) returned error %v, want %v", arg, err, tc.wantErr)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Create(%+v) returned unexpected diff (-want +got):\n%s", arg, diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	user := randomUser(t)
	user.PasswordChangedAt = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      domain.User
		wantErr   error
	}{
		{
			name: "OK",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetQuery).
					WithArgs(user.UID).
					WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
						user.UID, user.HashedPassword, user.DisplayName, user.Email,
						user.PasswordChangedAt, user.CreatedAt,
					))
			},
			want: user,
		},
		{
			name: "NotFound",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetQuery).
					WithArgs(user.UID).
					WillReturnRows(sqlmock.NewRows(userColumns))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "DriverError",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(GetQuery).
					WithArgs(user.UID).
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

			got, err := NewRepoPGS(db).Get(context.Background(), user.UID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Get(%v) returned error %v, want %v", user.UID, err, tc.wantErr)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Get(%v) returned unexpected diff (-want +got):\n%s", user.UID, diff)
			}
		})
	}
}
