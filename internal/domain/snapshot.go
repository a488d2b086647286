package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Snapshot is the complete in-memory financial state of one session.
// Transactions are kept newest-first. A Snapshot is treated as an immutable
// value: operations return a new Snapshot instead of modifying the receiver.
type Snapshot struct {
	User         User          `json:"-"`
	Accounts     []Account     `json:"accounts"`
	Transactions []Transaction `json:"transactions"`
	Categories   []Category    `json:"categories"`
}

// Clone returns a copy whose slices do not share backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		User:         s.User,
		Accounts:     slices.Clone(s.Accounts),
		Transactions: slices.Clone(s.Transactions),
		Categories:   slices.Clone(s.Categories),
	}
}

// TotalBalance sums every account balance.
func (s Snapshot) TotalBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}
