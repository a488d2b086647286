// Package session owns the authoritative snapshot of the signed-in user and
// is the only place it is changed.
package session

import (
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/ledger"
)

// The functions below are pure: they take a snapshot value and return the
// next one without modifying the input.

// AddAccount appends a with its balance exactly as given.
func AddAccount(s domain.Snapshot, a domain.Account) domain.Snapshot {
	next := s
	next.Accounts = ledger.AppendAccount(s.Accounts, a)
	return next
}

// UpdateAccount replaces the account with a's id by a, verbatim. The balance
// is not recomputed from transactions.
func UpdateAccount(s domain.Snapshot, a domain.Account) domain.Snapshot {
	next := s
	next.Accounts = ledger.ReplaceAccount(s.Accounts, a)
	return next
}

// DeleteAccount removes the account and all of its transactions.
func DeleteAccount(s domain.Snapshot, accountID string) domain.Snapshot {
	next := s
	next.Accounts, next.Transactions = ledger.CascadeDeleteAccount(accountID, s.Accounts, s.Transactions)
	return next
}

// AddTransaction applies t to its account and records it as the newest transaction.
func AddTransaction(s domain.Snapshot, t domain.Transaction) domain.Snapshot {
	next := s
	next.Accounts = ledger.Apply(t, s.Accounts)
	next.Transactions = ledger.PrependTransaction(s.Transactions, t)
	return next
}

// DeleteTransaction reverses and removes the transaction with the given id.
// An unknown id returns s unchanged.
func DeleteTransaction(s domain.Snapshot, id string) domain.Snapshot {
	t, ok := ledger.FindTransaction(s.Transactions, id)
	if !ok {
		return s
	}

	next := s
	next.Accounts = ledger.Reverse(t, s.Accounts)
	next.Transactions = ledger.RemoveTransaction(s.Transactions, id)
	return next
}
