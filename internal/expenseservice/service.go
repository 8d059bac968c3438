// Package expenseservice manages business logic layer of expenses.
package expenseservice

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/currencypkg"
	"github.com/go-petr/pet-budget/pkg/moneypkg"
	"github.com/go-petr/pet-budget/pkg/monthpkg"
)

// Repo provides data access layer interface needed by expense service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package expenseservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateExpenseParams) (domain.Expense, error)
	List(ctx context.Context, bookID int64, f domain.ExpenseFilter) ([]domain.Expense, error)
	Update(ctx context.Context, bookID, id int64, p domain.ExpensePatch) error
	Delete(ctx context.Context, bookID, id int64) error
}

// Authority provides access decisions over books.
type Authority interface {
	RequireMember(ctx context.Context, bookID int64, uid string) (domain.Role, error)
}

// Service facilitates expense service layer logic.
type Service struct {
	repo      Repo
	authority Authority
}

// New returns expense service struct to manage expense business logic.
func New(er Repo, a Authority) *Service {
	return &Service{
		repo:      er,
		authority: a,
	}
}

// Filter turns the raw list query into a date filter.
//
// Malformed month tokens are ignored. A valid from or to bound wins over month buckets.
func Filter(q domain.ExpenseQuery) domain.ExpenseFilter {
	var f domain.ExpenseFilter

	if r, ok := monthpkg.Parse(strings.TrimSpace(q.From)); ok {
		f.From = &r.Start
	}

	if r, ok := monthpkg.Parse(strings.TrimSpace(q.To)); ok {
		f.To = &r.End
	}

	if f.From != nil || f.To != nil {
		return f
	}

	for _, r := range monthpkg.ParseAll(q.Months) {
		f.Months = append(f.Months, domain.DateRange{Start: r.Start, End: r.End})
	}

	return f
}

// CheckAccess reports whether uid may work with the expenses of the book.
func (s *Service) CheckAccess(ctx context.Context, uid string, bookID int64) error {
	_, err := s.authority.RequireMember(ctx, bookID, uid)
	return err
}

// List returns the expenses of the book matching the query, newest first.
func (s *Service) List(ctx context.Context, uid string, bookID int64, q domain.ExpenseQuery) ([]domain.Expense, error) {
	if _, err := s.authority.RequireMember(ctx, bookID, uid); err != nil {
		return nil, err
	}

	return s.repo.List(ctx, bookID, Filter(q))
}

func amountCents(a domain.Amount) (int64, error) {
	amount, err := a.Decimal()
	if err != nil || !amount.IsPositive() {
		return 0, domain.ErrInvalidAmount
	}

	cents, err := moneypkg.ToMinorUnits(amount)
	if err != nil || cents <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	return cents, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrDateRequired
	}

	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}

	return d, nil
}

func normalizeDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil, nil
	}

	if utf8.RuneCountInString(trimmed) > domain.MaxDescriptionLen {
		return nil, domain.ErrDescriptionTooLong
	}

	return &trimmed, nil
}

func normalizeCurrency(c string) (string, error) {
	c = currencypkg.Normalize(c)
	if !currencypkg.IsValidCode(c) {
		return "", domain.ErrInvalidCurrency
	}

	return c, nil
}

// Create records an expense in the book on behalf of uid.
func (s *Service) Create(ctx context.Context, uid string, bookID int64, in domain.ExpenseInput) (domain.Expense, error) {
	if _, err := s.authority.RequireMember(ctx, bookID, uid); err != nil {
		return domain.Expense{}, err
	}

	if in.Amount == nil {
		return domain.Expense{}, domain.ErrInvalidAmount
	}

	cents, err := amountCents(*in.Amount)
	if err != nil {
		return domain.Expense{}, err
	}

	occurredAt, err := parseDate(in.Date)
	if err != nil {
		return domain.Expense{}, err
	}

	description, err := normalizeDescription(in.Description)
	if err != nil {
		return domain.Expense{}, err
	}

	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return domain.Expense{}, err
	}

	arg := domain.CreateExpenseParams{
		BookID:      bookID,
		UserUID:     uid,
		AmountCents: cents,
		Currency:    currency,
		Description: description,
		OccurredAt:  occurredAt,
	}

	return s.repo.Create(ctx, arg)
}

// Patch validates the supplied fields of in.
func Patch(in domain.ExpensePatchInput) (domain.ExpensePatch, error) {
	var p domain.ExpensePatch

	if in.Empty() {
		return p, domain.ErrNothingToUpdate
	}

	if in.Amount.Set {
		cents, err := amountCents(in.Amount.Value)
		if err != nil {
			return p, err
		}

		p.AmountCents = domain.Some(cents)
	}

	if in.Description.Set {
		d, err := normalizeDescription(in.Description.Value)
		if err != nil {
			return p, err
		}

		p.Description = domain.Some(d)
	}

	if in.Date.Set {
		d, err := parseDate(in.Date.Value)
		if err != nil {
			return p, err
		}

		p.OccurredAt = domain.Some(d)
	}

	if in.Currency.Set {
		c, err := normalizeCurrency(in.Currency.Value)
		if err != nil {
			return p, err
		}

		p.Currency = domain.Some(c)
	}

	return p, nil
}

// Update changes the supplied fields of the expense.
func (s *Service) Update(ctx context.Context, uid string, bookID, id int64, in domain.ExpensePatchInput) error {
	if _, err := s.authority.RequireMember(ctx, bookID, uid); err != nil {
		return err
	}

	p, err := Patch(in)
	if err != nil {
		return err
	}

	return s.repo.Update(ctx, bookID, id, p)
}

// Delete removes the expense from the book.
func (s *Service) Delete(ctx context.Context, uid string, bookID, id int64) error {
	if _, err := s.authority.RequireMember(ctx, bookID, uid); err != nil {
		return err
	}

	return s.repo.Delete(ctx, bookID, id)
}
