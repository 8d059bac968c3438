// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Constants for commonly used currencies.
const (
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
	CHF = "CHF"
)

// Default is stored when an expense does not name its currency.
const Default = EUR

var validate = validator.New()

// Normalize trims and upper-cases the code, substituting Default for an empty one.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Default
	}

	return code
}

// IsValidCode reports whether code is an ISO 4217 alphabetic currency code.
func IsValidCode(code string) bool {
	return validate.Var(code, "iso4217") == nil
}
