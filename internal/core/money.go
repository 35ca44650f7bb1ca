// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. The durable JSON form is a plain
// number (12.5, 50000), the same shape the browser-side tracker wrote.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountCents caps a single transaction at 10 trillion currency units.
	MaxAmountCents int64 = 1_000_000_000_000_000

	// MaxTotalCents caps the income and expense totals of a ledger. Every
	// sum and difference of two such totals fits in an int64.
	MaxTotalCents int64 = 100 * MaxAmountCents

	maxAmountUnits = MaxAmountCents / 100
)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// Only a dot is accepted as the decimal separator; a comma would be ambiguous
// with thousands grouping. Half-up rounding is applied on the third decimal.
// Returns ErrInvalidAmount for anything that is not a finite positive number
// no larger than MaxAmountCents.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("1,5")    -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv > maxAmountUnits {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 || cents > MaxAmountCents {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Units returns the amount in whole currency units, for display only.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m minus o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
// Amounts are rounded half-up to cents and must land in (0, MaxAmountCents].
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	cents := d.Shift(2).Round(0)
	switch {
	case !cents.IsPositive():
		return fmt.Errorf("decode amount %s: rounds to %s cents: %w", d.String(), cents.String(), ErrInvalidAmount)
	case cents.GreaterThan(decimal.New(MaxAmountCents, 0)):
		return fmt.Errorf("decode amount %s: above %d cents: %w", d.String(), MaxAmountCents, ErrInvalidAmount)
	}
	m.Cents = cents.IntPart()
	return nil
}
