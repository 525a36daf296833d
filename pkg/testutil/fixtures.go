// Package testutil provides helpers shared by unit tests
package testutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrPtr returns a pointer to the given string
func StrPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time {
	return &t
}

// MustDecimal parses a decimal or panics. For use in test fixtures only.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
