package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a missing or non positive amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrDateRequired indicates that the expense date is missing.
	ErrDateRequired = errors.New("date required")
	// ErrInvalidDate indicates that the expense date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidCurrency indicates that the currency is not a three letter code.
	ErrInvalidCurrency = errors.New("invalid currency")
	// ErrDescriptionTooLong indicates that the description exceeds MaxDescriptionLen.
	ErrDescriptionTooLong = errors.New("description too long")
	// ErrNothingToUpdate indicates an expense patch without any field.
	ErrNothingToUpdate = errors.New("nothing to update")
)

// MaxDescriptionLen is the maximum expense description length in characters.
const MaxDescriptionLen = 500

// DateLayout is the wire format of expense dates.
const DateLayout = "2006-01-02"

// Expense is a single spending recorded in a book.
type Expense struct {
	ID          int64     `json:"id"`
	BookID      int64     `json:"book_id"`
	UserUID     string    `json:"user_uid"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Description *string   `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Amount is a decimal amount exactly as the client sent it, either a JSON number or a string.
//
// Decoding never fails. The expense service parses it.
type Amount string

// UnmarshalJSON keeps the text of a string or the raw literal of anything else.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Amount(s)
		return nil
	}

	*a = Amount(b)

	return nil
}

// Decimal parses the amount.
func (a Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}

// ExpenseInput is the raw client input to record an expense.
type ExpenseInput struct {
	Amount      *Amount
	Date        string
	Description *string
	Currency    string
}

// CreateExpenseParams is the validated data to insert an expense.
type CreateExpenseParams struct {
	BookID      int64
	UserUID     string
	AmountCents int64
	Currency    string
	Description *string
	OccurredAt  time.Time
}

// Optional is a patch slot. Set reports whether the client supplied the field.
type Optional[T any] struct {
	Value T
	Set   bool
}

// UnmarshalJSON marks the slot as supplied, including for an explicit null.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// Some returns a supplied Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// ExpensePatchInput is the raw client input to update an expense.
//
// A supplied Description holding nil clears the stored description.
type ExpensePatchInput struct {
	Amount      Optional[Amount]  `json:"amount"`
	Description Optional[*string] `json:"description"`
	Date        Optional[string]  `json:"date"`
	Currency    Optional[string]  `json:"currency"`
}

// Empty reports whether no field was supplied.
func (p ExpensePatchInput) Empty() bool {
	return !p.Amount.Set && !p.Description.Set && !p.Date.Set && !p.Currency.Set
}

// ExpensePatch is the validated set of columns to change.
type ExpensePatch struct {
	AmountCents Optional[int64]
	Description Optional[*string]
	OccurredAt  Optional[time.Time]
	Currency    Optional[string]
}

// DateRange is the half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ExpenseFilter restricts listed expenses by date.
//
// From and To bound a continuous range and take precedence over Months,
// which are combined with OR.
type ExpenseFilter struct {
	From   *time.Time
	To     *time.Time
	Months []DateRange
}

// ExpenseQuery is the raw list query of the expenses endpoint.
type ExpenseQuery struct {
	From   string
	To     string
	Months []string
}
