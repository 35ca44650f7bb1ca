package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Type = "income"
	Expense Type = "expense"

	// DefaultCategory replaces a blank category at creation time.
	DefaultCategory = "Misc"

	// DateLayout is the calendar date format stored with every transaction.
	DateLayout = "2006-01-02"
)

type (
	// Type is the direction of a transaction.
	Type string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID       string `json:"id"`
		Type     Type   `json:"type"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Date     string `json:"date"`
		Note     string `json:"note"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyID       = errors.New("empty transaction id")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyDate     = errors.New("empty date")
	ErrTotalTooLarge = errors.New("ledger total too large")
)

// ParseType accepts the two known transaction types, case-insensitively.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Income, Expense:
		return t, nil
	default:
		return "", ErrInvalidType
	}
}

func (t Type) IsValid() bool {
	return t == Income || t == Expense
}

func (t Type) String() string {
	return string(t)
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the invariants every stored transaction must hold.
func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.ID) == "" {
		return ErrEmptyID
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Date) == "" {
		return ErrEmptyDate
	}
	return nil
}

// IsExpense reports whether the transaction reduces the balance.
func (tx Transaction) IsExpense() bool {
	return tx.Type == Expense
}

// NormalizeCategory trims the label and falls back to DefaultCategory.
func NormalizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultCategory
	}
	return s
}

// NormalizeDate trims the date and falls back to today's date in UTC.
func NormalizeDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC().Format(DateLayout)
	}
	return s
}

// SampleTransactions returns the demo ledger offered to a brand new profile.
// Dates are relative to now so the sample always looks recent.
func SampleTransactions(now time.Time, newID func() string) []Transaction {
	day := func(offset int) string {
		return now.UTC().AddDate(0, 0, offset).Format(DateLayout)
	}
	return []Transaction{
		{ID: newID(), Type: Income, Category: "Salary", Amount: Money{Cents: 5000000}, Date: day(-2), Note: "September salary"},
		{ID: newID(), Type: Expense, Category: "Rent", Amount: Money{Cents: 1500000}, Date: day(-25)},
		{ID: newID(), Type: Expense, Category: "Groceries", Amount: Money{Cents: 420000}, Date: day(-8), Note: "Weekly groceries"},
		{ID: newID(), Type: Expense, Category: "Transport", Amount: Money{Cents: 80000}, Date: day(-3), Note: "Fuel"},
	}
}
