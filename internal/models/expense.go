package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an amount paid by one user and shared among participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID ExpenseID

	// GroupID links the expense to a group. Empty for non-group expenses.
	GroupID GroupID

	// Amount is the gross amount paid.
	Amount decimal.Decimal

	// CategoryID is an opaque reference to the expense category.
	CategoryID string

	// Description is the free-text label of the expense.
	Description string

	// PaidBy is the user who paid.
	PaidBy UserID

	// Shares is how much each participant owes for this expense.
	// The payer may appear here with their own share; it produces no debt.
	// Nothing enforces that the shares sum to Amount.
	Shares []Share

	// CreatedAt is when the expense was recorded.
	CreatedAt time.Time
}

// Share is one participant's portion of an expense.
type Share struct {
	UserID UserID
	Amount decimal.Decimal
}
