// Package report derives read-only views from a snapshot: the dashboard
// summary, monthly trends, category breakdowns and transaction filtering.
package report

import (
	"strings"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/shopspring/decimal"
)

// UncategorizedName is shown for transactions whose category is missing.
const UncategorizedName = "Uncategorized"

// RecentCount is how many transactions the dashboard lists.
const RecentCount = 5

// Dashboard is the summary shown on the home screen.
type Dashboard struct {
	TotalBalance decimal.Decimal      `json:"totalBalance"`
	AccountCount int                  `json:"accountCount"`
	MonthIncome  decimal.Decimal      `json:"monthIncome"`
	MonthExpense decimal.Decimal      `json:"monthExpense"`
	Recent       []domain.Transaction `json:"recent"`
}

// MonthTotal is income and expense within one calendar month.
type MonthTotal struct {
	Month   string          `json:"month"` // 2006-01
	Label   string          `json:"label"` // Jan
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotal is the amount recorded against one category.
type CategoryTotal struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// BuildDashboard summarizes s for the calendar month containing now.
// Recent holds the first RecentCount transactions in snapshot order (newest first).
func BuildDashboard(s domain.Snapshot, now time.Time) Dashboard {
	d := Dashboard{
		TotalBalance: s.TotalBalance(),
		AccountCount: len(s.Accounts),
		MonthIncome:  decimal.Zero,
		MonthExpense: decimal.Zero,
	}

	for _, t := range s.Transactions {
		if !sameMonth(t.Date.In(now.Location()), now) {
			continue
		}
		if t.Type == domain.TransactionTypeIncome {
			d.MonthIncome = d.MonthIncome.Add(t.Amount)
		} else {
			d.MonthExpense = d.MonthExpense.Add(t.Amount)
		}
	}

	n := min(RecentCount, len(s.Transactions))
	d.Recent = append([]domain.Transaction{}, s.Transactions[:n]...)
	return d
}

// MonthlyTrend returns income and expense totals for the last months calendar
// months ending with the month containing now, oldest first.
func MonthlyTrend(txs []domain.Transaction, now time.Time, months int) []MonthTotal {
	if months < 1 {
		return []MonthTotal{}
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthTotal, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i-months+1, 0)
		key := m.Format("2006-01")
		out[i] = MonthTotal{
			Month:   key,
			Label:   m.Format("Jan"),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
		index[key] = i
	}

	for _, t := range txs {
		i, ok := index[t.Date.In(now.Location()).Format("2006-01")]
		if !ok {
			continue
		}
		if t.Type == domain.TransactionTypeIncome {
			out[i].Income = out[i].Income.Add(t.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(t.Amount)
		}
	}
	return out
}

// ExpenseByCategory totals the transactions filed under each EXPENSE
// category, in category order. Categories with a zero total are left out.
func ExpenseByCategory(txs []domain.Transaction, cats []domain.Category) []CategoryTotal {
	totals := make(map[string]decimal.Decimal, len(cats))
	for _, t := range txs {
		totals[t.CategoryID] = totals[t.CategoryID].Add(t.Amount)
	}

	out := []CategoryTotal{}
	for _, c := range cats {
		if c.Type != domain.TransactionTypeExpense {
			continue
		}
		total := totals[c.ID]
		if !total.IsPositive() {
			continue
		}
		out = append(out, CategoryTotal{CategoryID: c.ID, Name: c.Name, Color: c.Color, Total: total})
	}
	return out
}

// Filter selects transactions for the transaction list.
type Filter struct {
	// Query matches descriptions case-insensitively. Empty matches everything.
	Query string
	// Type keeps one transaction type. Empty keeps both.
	Type domain.TransactionType
}

// FilterTransactions returns the transactions matching f, preserving order.
func FilterTransactions(txs []domain.Transaction, f Filter) []domain.Transaction {
	q := strings.ToLower(f.Query)
	out := []domain.Transaction{}
	for _, t := range txs {
		if q != "" && !strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CategoryName returns the category's name or UncategorizedName.
func CategoryName(cats []domain.Category, id string) string {
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return UncategorizedName
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
