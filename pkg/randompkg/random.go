// Package randompkg generates random values for tests and demo data.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/go-petr/pet-budget/pkg/currencypkg"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// UID generates a random user id.
func UID() string {
	return String(6)
}

// BookName generates a random book name.
func BookName() string {
	return "Book " + String(8)
}

// AmountCents generates a random positive amount in cents up to 1000.00.
func AmountCents() int64 {
	return IntBetween(1, 100_000)
}

// Currency generates a random currency code.
func Currency() string {
	currencies := []string{currencypkg.EUR, currencypkg.USD, currencypkg.GBP, currencypkg.CHF}
	return currencies[Intn(len(currencies))]
}

// DateInMonth returns a random UTC midnight inside the given month.
func DateInMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, int(IntBetween(1, 28)), 0, 0, 0, 0, time.UTC)
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}
