// Package test provides shared unit test helpers.
package test

import (
	"time"

	"github.com/go-petr/pet-budget/internal/domain"
	"github.com/go-petr/pet-budget/pkg/randompkg"
)

// RandomBook returns a random book owned by the given user.
func RandomBook(ownerUID string) domain.Book {
	return domain.Book{
		ID:        randompkg.IntBetween(1, 1000),
		OwnerUID:  ownerUID,
		Name:      randompkg.BookName(),
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// RandomExpense returns a random expense recorded in the given book.
func RandomExpense(bookID int64, userUID string) domain.Expense {
	now := time.Now().UTC()
	description := randompkg.String(12)

	return domain.Expense{
		ID:          randompkg.IntBetween(1, 10_000),
		BookID:      bookID,
		UserUID:     userUID,
		AmountCents: randompkg.AmountCents(),
		Currency:    randompkg.Currency(),
		Description: &description,
		OccurredAt:  randompkg.DateInMonth(now.Year(), now.Month()),
		CreatedAt:   now.Truncate(time.Second),
	}
}

// RandomUser returns a random user with the given password hash.
func RandomUser(hashedPassword string) domain.User {
	return domain.User{
		UID:            randompkg.UID(),
		HashedPassword: hashedPassword,
		DisplayName:    randompkg.String(8),
		Email:          randompkg.Email(),
		CreatedAt:      time.Now().Truncate(time.Second).UTC(),
	}
}
