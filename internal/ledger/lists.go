package ledger

import "github.com/dvloznov/finsmart/internal/domain"

// AppendAccount returns accounts with a added at the end.
func AppendAccount(accounts []domain.Account, a domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts), len(accounts)+1)
	copy(out, accounts)
	return append(out, a)
}

// ReplaceAccount swaps in a for the account with the same id. The record,
// balance included, is taken as given. Unknown ids leave the list unchanged.
func ReplaceAccount(accounts []domain.Account, a domain.Account) []domain.Account {
	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	for i := range out {
		if out[i].ID == a.ID {
			out[i] = a
		}
	}
	return out
}

// PrependTransaction puts t at the front, keeping the list newest-first.
func PrependTransaction(txs []domain.Transaction, t domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs)+1)
	out = append(out, t)
	return append(out, txs...)
}

// RemoveTransaction drops the transaction with the given id.
func RemoveTransaction(txs []domain.Transaction, id string) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// FindTransaction looks a transaction up by id.
func FindTransaction(txs []domain.Transaction, id string) (domain.Transaction, bool) {
	for _, t := range txs {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Transaction{}, false
}

// FindAccount looks an account up by id.
func FindAccount(accounts []domain.Account, id string) (domain.Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Account{}, false
}
