package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary holds the headline figures of a ledger.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money
	// Savings is the balance clamped at zero.
	Savings Money
}

// Summarize computes totals over the given snapshot.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			s.Income = s.Income.Add(tx.Amount)
		case Expense:
			s.Expense = s.Expense.Add(tx.Amount)
		}
	}
	s.Balance = s.Income.Sub(s.Expense)
	if s.Balance.Cents > 0 {
		s.Savings = s.Balance
	}
	return s
}

// ExpenseByCategory sums expense amounts per category, largest first.
// Ties keep the order in which categories first appear in txs.
func ExpenseByCategory(txs []Transaction) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, tx := range txs {
		if !tx.IsExpense() {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Name: tx.Category})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Amount.Cents > out[b].Amount.Cents
	})
	return out
}

// TotalOf sums the amounts of a breakdown.
func TotalOf(rows []CategoryAmount) Money {
	var total Money
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}

// CheckTotals reports ErrTotalTooLarge when the income or expense total of
// txs exceeds MaxTotalCents. Amounts must already be within MaxAmountCents.
func CheckTotals(txs []Transaction) error {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			income += tx.Amount.Cents
		case Expense:
			expense += tx.Amount.Cents
		}
		if income > MaxTotalCents || expense > MaxTotalCents {
			return ErrTotalTooLarge
		}
	}
	return nil
}
