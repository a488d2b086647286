package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType says whether a transaction adds to or subtracts from its account.
type TransactionType string

const (
	// TransactionTypeIncome increases the owning account's balance.
	TransactionTypeIncome TransactionType = "INCOME"
	// TransactionTypeExpense decreases the owning account's balance.
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// AccountType is a display classification; it has no effect on balance arithmetic.
type AccountType string

const (
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeChecking   AccountType = "Checking"
	AccountTypeCreditCard AccountType = "Credit Card"
	AccountTypeCash       AccountType = "Cash"
)

// Valid reports whether a is one of the known account types.
func (a AccountType) Valid() bool {
	switch a {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeCreditCard, AccountTypeCash:
		return true
	}
	return false
}

// Account is a money container. Balance may be negative (credit cards).
type Account struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Type     AccountType     `json:"type"`
	Currency string          `json:"currency"`
}

// Transaction records money moving into or out of one account.
// Amount is non-negative by convention; Type carries the direction.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	CategoryID  string          `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
}

// Category labels transactions. Color is a display hint such as "#F87171".
type Category struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

// User is the identity a snapshot belongs to.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
