package money

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money holds amounts as integer minor units (cents) to keep arithmetic
// exact.
type Money struct {
	Cents    int64
	Currency string
}

// New validates the currency code and builds a Money value.
func New(cents int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Cents: cents, Currency: strings.ToUpper(currency)}, nil
}

// Must builds Money and panics on a bad currency; for fixtures and tests.
func Must(cents int64, currency string) Money {
	m, err := New(cents, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Add sums two values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// MultiplyDays scales the amount by a whole number of days.
func (m Money) MultiplyDays(days int) Money {
	return Money{Cents: m.Cents * int64(days), Currency: m.Currency}
}

// IsZero reports a zero amount.
func (m Money) IsZero() bool { return m.Cents == 0 }

// IsPositive reports a strictly positive amount.
func (m Money) IsPositive() bool { return m.Cents > 0 }

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Cents/100, abs(m.Cents%100), m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
