package bigquery

import (
	"math/big"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/shopspring/decimal"
)

// numericScale is the fractional precision of the BigQuery NUMERIC type.
const numericScale = 9

// AccountRow maps to the accounts table.
type AccountRow struct {
	UserID    string   `bigquery:"user_id"`    // REQUIRED
	AccountID string   `bigquery:"account_id"` // REQUIRED
	Name      string   `bigquery:"name"`
	Balance   *big.Rat `bigquery:"balance"` // NUMERIC
	Type      string   `bigquery:"account_type"`
	Currency  string   `bigquery:"currency"`
	Position  int64    `bigquery:"position"` // order within the snapshot
}

// TransactionRow maps to the transactions table.
type TransactionRow struct {
	UserID        string    `bigquery:"user_id"`        // REQUIRED
	TransactionID string    `bigquery:"transaction_id"` // REQUIRED
	AccountID     string    `bigquery:"account_id"`
	CategoryID    string    `bigquery:"category_id"`
	Amount        *big.Rat  `bigquery:"amount"` // NUMERIC
	Type          string    `bigquery:"transaction_type"`
	Date          time.Time `bigquery:"transaction_date"` // TIMESTAMP
	Description   string    `bigquery:"description"`
	Position      int64     `bigquery:"position"` // 0 is the newest
}

// CategoryRow maps to the categories table.
type CategoryRow struct {
	UserID     string `bigquery:"user_id"`     // REQUIRED
	CategoryID string `bigquery:"category_id"` // REQUIRED
	Name       string `bigquery:"name"`
	Type       string `bigquery:"category_type"`
	Color      string `bigquery:"color"`
	Position   int64  `bigquery:"position"`
}

func toRat(d decimal.Decimal) *big.Rat {
	return d.Rat()
}

func fromRat(r *big.Rat) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigRat(r, numericScale)
}

// SnapshotRows flattens a snapshot into table rows for one user.
// Slices are never nil so they can be bound as array parameters.
func SnapshotRows(userID string, snap domain.Snapshot) ([]AccountRow, []TransactionRow, []CategoryRow) {
	accounts := make([]AccountRow, 0, len(snap.Accounts))
	for i, a := range snap.Accounts {
		accounts = append(accounts, AccountRow{
			UserID:    userID,
			AccountID: a.ID,
			Name:      a.Name,
			Balance:   toRat(a.Balance),
			Type:      string(a.Type),
			Currency:  a.Currency,
			Position:  int64(i),
		})
	}

	txs := make([]TransactionRow, 0, len(snap.Transactions))
	for i, t := range snap.Transactions {
		txs = append(txs, TransactionRow{
			UserID:        userID,
			TransactionID: t.ID,
			AccountID:     t.AccountID,
			CategoryID:    t.CategoryID,
			Amount:        toRat(t.Amount),
			Type:          string(t.Type),
			Date:          t.Date.UTC(),
			Description:   t.Description,
			Position:      int64(i),
		})
	}

	cats := make([]CategoryRow, 0, len(snap.Categories))
	for i, c := range snap.Categories {
		cats = append(cats, CategoryRow{
			UserID:     userID,
			CategoryID: c.ID,
			Name:       c.Name,
			Type:       string(c.Type),
			Color:      c.Color,
			Position:   int64(i),
		})
	}

	return accounts, txs, cats
}

// SnapshotFromRows rebuilds a snapshot from rows already ordered by position.
func SnapshotFromRows(accounts []AccountRow, txs []TransactionRow, cats []CategoryRow) domain.Snapshot {
	snap := domain.Snapshot{
		Accounts:     make([]domain.Account, 0, len(accounts)),
		Transactions: make([]domain.Transaction, 0, len(txs)),
		Categories:   make([]domain.Category, 0, len(cats)),
	}

	for _, r := range accounts {
		snap.Accounts = append(snap.Accounts, domain.Account{
			ID:       r.AccountID,
			Name:     r.Name,
			Balance:  fromRat(r.Balance),
			Type:     domain.AccountType(r.Type),
			Currency: r.Currency,
		})
	}
	for _, r := range txs {
		snap.Transactions = append(snap.Transactions, domain.Transaction{
			ID:          r.TransactionID,
			AccountID:   r.AccountID,
			CategoryID:  r.CategoryID,
			Amount:      fromRat(r.Amount),
			Type:        domain.TransactionType(r.Type),
			Date:        r.Date.UTC(),
			Description: r.Description,
		})
	}
	for _, r := range cats {
		snap.Categories = append(snap.Categories, domain.Category{
			ID:    r.CategoryID,
			Name:  r.Name,
			Type:  domain.TransactionType(r.Type),
			Color: r.Color,
		})
	}

	return snap
}
