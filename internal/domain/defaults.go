package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemoUser is the fixed identity used for guest sessions.
var DemoUser = User{
	ID:    "demo-user-123",
	Email: "tester@finsmart.com",
	Name:  "Guest",
}

// DefaultCategories returns the category set every new snapshot starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Food & Dining", Type: TransactionTypeExpense, Color: "#F87171"},
		{ID: "2", Name: "Transportation", Type: TransactionTypeExpense, Color: "#60A5FA"},
		{ID: "3", Name: "Housing", Type: TransactionTypeExpense, Color: "#34D399"},
		{ID: "4", Name: "Entertainment", Type: TransactionTypeExpense, Color: "#A78BFA"},
		{ID: "5", Name: "Salary", Type: TransactionTypeIncome, Color: "#10B981"},
		{ID: "6", Name: "Investment", Type: TransactionTypeIncome, Color: "#FBBF24"},
		{ID: "7", Name: "Shopping", Type: TransactionTypeExpense, Color: "#EC4899"},
		{ID: "8", Name: "Healthcare", Type: TransactionTypeExpense, Color: "#F472B6"},
	}
}

// SampleAccounts returns the accounts a freshly seeded snapshot contains.
func SampleAccounts() []Account {
	return []Account{
		{ID: "acc1", Name: "Main Savings", Balance: decimal.NewFromInt(50000), Type: AccountTypeSavings, Currency: "TWD"},
		{ID: "acc2", Name: "Credit Card", Balance: decimal.NewFromInt(-1200), Type: AccountTypeCreditCard, Currency: "TWD"},
	}
}

// SampleTransactions returns the seeded transaction history, newest first.
// Seeding does not apply them: the sample balances are opening balances.
func SampleTransactions() []Transaction {
	day := func(d int) time.Time { return time.Date(2023, time.December, d, 0, 0, 0, 0, time.UTC) }
	return []Transaction{
		{ID: "t4", AccountID: "acc1", CategoryID: "2", Amount: decimal.NewFromInt(50), Type: TransactionTypeExpense, Date: day(8), Description: "MRT Fare"},
		{ID: "t3", AccountID: "acc2", CategoryID: "7", Amount: decimal.NewFromInt(2500), Type: TransactionTypeExpense, Date: day(7), Description: "New Shoes"},
		{ID: "t2", AccountID: "acc1", CategoryID: "1", Amount: decimal.NewFromInt(150), Type: TransactionTypeExpense, Date: day(6), Description: "Lunch"},
		{ID: "t1", AccountID: "acc1", CategoryID: "5", Amount: decimal.NewFromInt(65000), Type: TransactionTypeIncome, Date: day(5), Description: "Monthly Salary"},
	}
}

// Seed builds the default snapshot for a user that has no stored data.
func Seed(u User) Snapshot {
	return Snapshot{
		User:         u,
		Accounts:     SampleAccounts(),
		Transactions: SampleTransactions(),
		Categories:   DefaultCategories(),
	}
}
