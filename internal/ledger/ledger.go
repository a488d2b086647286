// Package ledger keeps account balances consistent with the transactions
// that reference them. Every function is pure: inputs are never modified and
// results never share backing arrays with them.
package ledger

import (
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/shopspring/decimal"
)

// Effect is the signed amount a transaction contributes to its account:
// +amount for INCOME and -amount for EXPENSE.
func Effect(t domain.Transaction) decimal.Decimal {
	if t.Type == domain.TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Apply adds the transaction's effect to its owning account.
// A transaction whose account is not present leaves the balances unchanged.
func Apply(t domain.Transaction, accounts []domain.Account) []domain.Account {
	return adjust(accounts, t.AccountID, Effect(t))
}

// Reverse removes the transaction's effect from its owning account.
// Reverse(t, Apply(t, a)) yields balances equal to a.
func Reverse(t domain.Transaction, accounts []domain.Account) []domain.Account {
	return adjust(accounts, t.AccountID, Effect(t).Neg())
}

func adjust(accounts []domain.Account, accountID string, delta decimal.Decimal) []domain.Account {
	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	for i := range out {
		if out[i].ID == accountID {
			out[i].Balance = out[i].Balance.Add(delta)
		}
	}
	return out
}

// CascadeDeleteAccount drops the account and every transaction that references it.
// Balances of the remaining accounts are untouched.
func CascadeDeleteAccount(accountID string, accounts []domain.Account, txs []domain.Transaction) ([]domain.Account, []domain.Transaction) {
	keptAccounts := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.ID != accountID {
			keptAccounts = append(keptAccounts, a)
		}
	}

	keptTxs := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.AccountID != accountID {
			keptTxs = append(keptTxs, t)
		}
	}
	return keptAccounts, keptTxs
}
