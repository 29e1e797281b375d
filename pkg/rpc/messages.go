// Package rpc defines the messages exchanged with the pokett.v1 services.
// The same types serve as request and response bodies of the REST API.
//
// Amounts are decimals; they are written as JSON strings and accepted as
// either strings or numbers. Request amounts are nullable so that a missing
// amount can be told apart from zero.
package rpc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a signed amount between the caller and UserID.
// Positive means UserID owes the caller.
type Balance struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

type GetBalancesRequest struct {
	// GroupID selects one group's balances. Empty selects global balances.
	GroupID string `json:"groupId,omitempty" form:"groupId"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

// SettleRequest pays Amount from the caller to UserID in the global scope.
type SettleRequest struct {
	UserID string              `json:"userId" binding:"required"`
	Amount decimal.NullDecimal `json:"amount"`
}

type SettleResponse struct {
	Message string `json:"message"`
}

type Share struct {
	UserID string          `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

// ShareRequest is one participant's portion in a CreateExpenseRequest.
type ShareRequest struct {
	UserID string              `json:"userId" binding:"required"`
	Amount decimal.NullDecimal `json:"amount"`
}

type CreateExpenseRequest struct {
	GroupID     string              `json:"groupId,omitempty"`
	Amount      decimal.NullDecimal `json:"amount"`
	CategoryID  string              `json:"categoryId" binding:"required"`
	Description string              `json:"description"`
	PaidBy      string              `json:"paidBy" binding:"required"`
	Shares      []ShareRequest      `json:"shares" binding:"required,min=1,dive"`
}

type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description"`
	PaidBy      string          `json:"paidBy"`
	Shares      []Share         `json:"shares"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId,omitempty" form:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members"`
}

type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Members    []string  `json:"members"`
	ExpenseIDs []string  `json:"expenseIds"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	ID string `json:"id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupStatsRequest struct {
	GroupID string `json:"groupId"`
}

// MemberBalance is one member's standing within a group.
type MemberBalance struct {
	UserID       string          `json:"userId"`
	Name         string          `json:"name"`
	Email        string          `json:"email,omitempty"`
	TotalBalance decimal.Decimal `json:"totalBalance"`
	Owes         []Balance       `json:"owes"`
	IsOwed       []Balance       `json:"isOwed"`
}

type GetGroupStatsResponse struct {
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	MemberBalances []MemberBalance `json:"memberBalances"`
}

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
