package render

import (
	"html/template"

	"pftracker/internal/core"
)

// Row is one rendered ledger entry.
type Row struct {
	ID         string
	Category   string
	Badge      string
	BadgeColor template.CSS
	Date       string
	Note       string
	Amount     string
	Expense    bool
}

type Totals struct {
	Income  string
	Expense string
	Savings string
	Balance string
	// Negative is set when the balance is below zero.
	Negative bool
}

type LegendItem struct {
	Category string
	Color    template.CSS
	Amount   string
	Percent  string
}

// Dashboard is everything the page shows, derived from one snapshot.
type Dashboard struct {
	Rows    []Row
	Totals  Totals
	Pie     Pie
	Legend  []LegendItem
	Count   int
	Summary core.Summary
}

// Build derives the full dashboard from txs. txs must be newest first.
func (f *Formatter) Build(txs []core.Transaction) Dashboard {
	d := Dashboard{Count: len(txs)}

	d.Rows = make([]Row, 0, len(txs))
	for _, tx := range txs {
		d.Rows = append(d.Rows, Row{
			ID:         tx.ID,
			Category:   tx.Category,
			Badge:      core.BadgeLetter(tx.Category),
			BadgeColor: template.CSS(core.CategoryColor(tx.Category)),
			Date:       tx.Date,
			Note:       tx.Note,
			Amount:     f.Signed(tx),
			Expense:    tx.IsExpense(),
		})
	}

	d.Summary = core.Summarize(txs)
	d.Totals = Totals{
		Income:   f.Currency(d.Summary.Income),
		Expense:  f.Currency(d.Summary.Expense),
		Savings:  f.Currency(d.Summary.Savings),
		Balance:  f.Currency(d.Summary.Balance),
		Negative: d.Summary.Balance.Cents < 0,
	}

	rows := core.ExpenseByCategory(txs)
	d.Pie = BuildPie(rows)
	for _, s := range d.Pie.Slices {
		d.Legend = append(d.Legend, LegendItem{
			Category: s.Category,
			Color:    template.CSS(s.Color),
			Amount:   f.Currency(s.Amount),
			Percent:  Percent(s.Amount, d.Pie.Total),
		})
	}
	return d
}
