// Package render turns a ledger snapshot into display-ready values.
package render

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pftracker/internal/core"
)

const (
	DefaultSymbol = "₱"
	DefaultLocale = "en"
)

// Formatter renders amounts with a currency symbol and locale digit grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter returns a Formatter for the given symbol and BCP 47 locale.
func NewFormatter(symbol, locale string) (*Formatter, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}, nil
}

// MustFormatter is NewFormatter for constant arguments.
func MustFormatter(symbol, locale string) *Formatter {
	f, err := NewFormatter(symbol, locale)
	if err != nil {
		panic(err)
	}
	return f
}

// Number formats m with grouping and exactly two decimals: 50,000.00.
func (f *Formatter) Number(m core.Money) string {
	return f.printer.Sprintf("%.2f", m.Units())
}

// Currency prefixes the symbol: ₱50,000.00, ₱-1,000.00.
func (f *Formatter) Currency(m core.Money) string {
	return f.symbol + f.Number(m)
}

// Signed renders a row amount: "- ₱15,000.00" for expenses, "+₱50,000.00" for income.
func (f *Formatter) Signed(tx core.Transaction) string {
	if tx.IsExpense() {
		return "- " + f.Currency(tx.Amount)
	}
	return "+" + f.Currency(tx.Amount)
}

// Percent returns part/total*100 with one decimal, without a % sign.
func Percent(part, total core.Money) string {
	if total.Cents == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(part.Cents)/float64(total.Cents)*100, 'f', 1, 64)
}
