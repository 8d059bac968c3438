// Package demoseed fills an empty installation with a demo book.
//
// Running the seeder again leaves existing users, memberships and expenses untouched.
package demoseed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/currencypkg"
)

// BookName is the name of the seeded book.
const BookName = "Family budget demo"

// UserService creates accounts.
type UserService interface {
	Create(ctx context.Context, uid, password, displayName, email string) (domain.UserWithoutPassword, error)
}

// BookRepo finds and creates books.
type BookRepo interface {
	ListByOwner(ctx context.Context, uid string) ([]domain.BookWithRole, error)
	Create(ctx context.Context, ownerUID, name string) (domain.Book, error)
}

// MemberRepo stores memberships.
type MemberRepo interface {
	Add(ctx context.Context, bookID int64, uid string, role domain.Role) error
}

// ExpenseRepo stores expenses.
type ExpenseRepo interface {
	List(ctx context.Context, bookID int64, f domain.ExpenseFilter) ([]domain.Expense, error)
	Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error)
}

// DemoUser is an account created by the seeder.
type DemoUser struct {
	UID         string
	Password    string
	DisplayName string
	Email       string
}

// Users are the demo accounts. The first one owns the book.
var Users = []DemoUser{
	{UID: "alice", Password: "Demo!User1-2025", DisplayName: "Alice Example", Email: "alice@example.com"},
	{UID: "bob", Password: "Demo!User2-2025", DisplayName: "Bob Example", Email: "bob@example.com"},
}

type demoExpense struct {
	uid         string
	cents       int64
	description string
	prevMonth   bool
	day         int
}

var expenses = []demoExpense{
	{uid: "alice", cents: 7500, description: "Weekly groceries", prevMonth: true, day: 3},
	{uid: "bob", cents: 1299, description: "Coffee and cake", prevMonth: true, day: 5},
	{uid: "bob", cents: 5400, description: "Fuel", prevMonth: true, day: 8},
	{uid: "alice", cents: 8999, description: "Drugstore and household", prevMonth: true, day: 12},
	{uid: "bob", cents: 2400, description: "Lunch at work", prevMonth: true, day: 15},
	{uid: "alice", cents: 1999, description: "Hardware store", prevMonth: true, day: 22},
	{uid: "alice", cents: 8200, description: "Weekly groceries", day: 2},
	{uid: "bob", cents: 1550, description: "Ice cream and coffee", day: 4},
	{uid: "bob", cents: 5600, description: "Fuel", day: 9},
	{uid: "alice", cents: 12000, description: "Monthly supplies", day: 10},
	{uid: "bob", cents: 3000, description: "Gift", day: 18},
}

// Seeder writes the demo data.
type Seeder struct {
	users    UserService
	books    BookRepo
	members  MemberRepo
	expenses ExpenseRepo
	now      func() time.Time
}

// New returns a Seeder using the wall clock.
func New(us UserService, br BookRepo, mr MemberRepo, er ExpenseRepo) *Seeder {
	return &Seeder{
		users:    us,
		books:    br,
		members:  mr,
		expenses: er,
		now:      time.Now,
	}
}

// Result summarizes a seeding run.
type Result struct {
	BookID          int64
	CreatedUsers    int
	CreatedExpenses int
}

// Run creates whatever part of the demo data is missing.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	l := zerolog.Ctx(ctx)

	var res Result

	for _, u := range Users {
		_, err := s.users.Create(ctx, u.UID, u.Password, u.DisplayName, u.Email)

		switch {
		case err == nil:
			l.Info().Str("uid", u.UID).Msg("created demo user")
			res.CreatedUsers++
		case errors.Is(err, domain.ErrUIDAlreadyExists), errors.Is(err, domain.ErrEmailAlreadyExists):
			l.Info().Str("uid", u.UID).Msg("demo user exists")
		default:
			return res, err
		}
	}

	owner := Users[0].UID

	bookID, err := s.book(ctx, owner)
	if err != nil {
		return res, err
	}
	res.BookID = bookID

	for _, u := range Users[1:] {
		err := s.members.Add(ctx, bookID, u.UID, domain.RoleMember)
		if err != nil && !errors.Is(err, domain.ErrMembershipExists) {
			return res, err
		}
	}

	existing, err := s.expenses.List(ctx, bookID, domain.ExpenseFilter{})
	if err != nil {
		return res, err
	}

	if len(existing) > 0 {
		l.Info().Int64("book_id", bookID).Msg("expenses already present, skipping")
		return res, nil
	}

	thisMonth := monthStart(s.now())
	prevMonth := thisMonth.AddDate(0, -1, 0)

	for _, e := range expenses {
		start := thisMonth
		if e.prevMonth {
			start = prevMonth
		}

		description := e.description

		arg := domain.CreateExpenseParams{
			BookID:      bookID,
			UserUID:     e.uid,
			AmountCents: e.cents,
			Currency:    currencypkg.Default,
			Description: &description,
			OccurredAt:  start.AddDate(0, 0, min(e.day, 28)-1),
		}

		if _, err := s.expenses.Create(ctx, arg); err != nil {
			return res, err
		}

		res.CreatedExpenses++
	}

	l.Info().Int64("book_id", bookID).Int("expenses", res.CreatedExpenses).Msg("demo data created")

	return res, nil
}

func (s *Seeder) book(ctx context.Context, owner string) (int64, error) {
	books, err := s.books.ListByOwner(ctx, owner)
	if err != nil {
		return 0, err
	}

	for _, b := range books {
		if b.Name == BookName {
			zerolog.Ctx(ctx).Info().Int64("book_id", b.ID).Msg("demo book exists")
			return b.ID, nil
		}
	}

	book, err := s.books.Create(ctx, owner, BookName)
	if err != nil {
		return 0, err
	}

	return book.ID, nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
