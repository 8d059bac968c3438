// Package helpers provides seeding helpers for integration tests.
package helpers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-petr/pet-budget/internal/bookrepo"
	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/internal/expenserepo"
	"github.com/go-petr/pet-budget/internal/memberrepo"
	"github.com/go-petr/pet-budget/internal/userrepo"
	"github.com/go-petr/pet-budget/pkg/currencypkg"
	"github.com/go-petr/pet-budget/pkg/dbpkg"
	"github.com/go-petr/pet-budget/pkg/passpkg"
	"github.com/go-petr/pet-budget/pkg/randompkg"
)

// SeedUser creates a random user whose password is returned alongside.
func SeedUser(t *testing.T, db dbpkg.SQLInterface) (domain.User, string) {
	t.Helper()

	password := randompkg.String(12)

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		t.Fatalf("passpkg.Hash(%v) returned error: %v", password, err)
	}

	arg := domain.CreateUserParams{
		UID:            randompkg.UID(),
		HashedPassword: hashedPassword,
		DisplayName:    randompkg.String(10),
		Email:          randompkg.Email(),
	}

	user, err := userrepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return user, password
}

// SeedBook creates a book owned by ownerUID together with the owner membership.
func SeedBook(t *testing.T, db *sql.DB, ownerUID string) domain.Book {
	t.Helper()

	name := randompkg.BookName()

	book, err := bookrepo.NewRepoPGS(db).Create(context.Background(), ownerUID, name)
	if err != nil {
		t.Fatalf("bookRepo.Create(context.Background(), %v, %v) returned error: %v", ownerUID, name, err)
	}

	return book
}

// SeedMember adds uid to the book as a member.
func SeedMember(t *testing.T, db dbpkg.SQLInterface, bookID int64, uid string) {
	t.Helper()

	if err := memberrepo.NewRepoPGS(db).Add(context.Background(), bookID, uid, domain.RoleMember); err != nil {
		t.Fatalf("memberRepo.Add(context.Background(), %v, %v) returned error: %v", bookID, uid, err)
	}
}

// SeedExpense records an expense of amountCents on the given day.
func SeedExpense(t *testing.T, db *sql.DB, bookID int64, uid string, amountCents int64, day time.Time) domain.Expense {
	t.Helper()

	arg := domain.CreateExpenseParams{
		BookID:      bookID,
		UserUID:     uid,
		AmountCents: amountCents,
		Currency:    currencypkg.Default,
		OccurredAt:  day,
	}

	expense, err := expenserepo.NewRepoPGS(db).Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("expenseRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return expense
}

// CountRows returns the number of rows of table matching the book.
func CountRows(t *testing.T, db dbpkg.SQLInterface, table string, bookID int64) int {
	t.Helper()

	var n int

	query := "SELECT count(*) FROM " + table + " WHERE book_id = $1"
	if err := db.QueryRowContext(context.Background(), query, bookID).Scan(&n); err != nil {
		t.Fatalf("counting %v rows returned error: %v", table, err)
	}

	return n
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
