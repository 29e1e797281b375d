// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/cocoexperiments/pokett-be/internal/models"
)

// PairMutation computes the replacement for every balance record stored for
// one pair of users in one scope. existing is ordered by UpdatedAt ascending.
//
// Returning nil deletes all existing records. Returning a balance whose ID
// matches one of existing updates that record in place and deletes the rest.
// Returning a balance with an empty ID deletes all existing records and
// inserts it as a new record.
type PairMutation func(existing []*models.Balance) (*models.Balance, error)

// BalanceStore persists pairwise balance records.
type BalanceStore interface {
	// MutatePair runs fn against the records for key and writes its result,
	// all inside one transaction. An error from fn aborts without writing.
	MutatePair(ctx context.Context, key models.PairKey, fn PairMutation) error

	// ListBalances returns every record in which user is creditor or debtor,
	// restricted to the given scope (models.Global for non-group balances).
	ListBalances(ctx context.Context, user models.UserID, group models.GroupID) ([]*models.Balance, error)

	// ListAllBalances returns every record involving user regardless of scope.
	ListAllBalances(ctx context.Context, user models.UserID) ([]*models.Balance, error)

	// InsertBalance writes a record as-is, bypassing pair consolidation.
	// It is a seeding hook for tests that need several records for one
	// pair; the ledger never calls it.
	InsertBalance(ctx context.Context, balance *models.Balance) error
}

// ExpenseStore persists expenses and their shares.
type ExpenseStore interface {
	// CreateExpense persists a new expense. ID and CreatedAt are populated
	// by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Returns an apperr.ErrNotFound
	// error if it does not exist.
	GetExpense(ctx context.Context, id models.ExpenseID) (*models.Expense, error)

	// ListExpenses returns expenses newest first. models.Global lists all
	// expenses; any other value lists that group's expenses only.
	ListExpenses(ctx context.Context, group models.GroupID) ([]*models.Expense, error)
}

// GroupStore persists groups, their members and their expense lists.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with members and expense IDs. Returns an
	// apperr.ErrNotFound error if it does not exist.
	GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error)

	// AddGroupExpense appends expenseID to the group's expense list.
	AddGroupExpense(ctx context.Context, id models.GroupID, expenseID models.ExpenseID) error
}

// UserStore is the local view of the identity directory.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUsersByIDs returns the known users keyed by ID. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []models.UserID) (map[models.UserID]*models.User, error)
}

// Store defines the full set of storage operations.
// This abstraction allows swapping storage backends without changing the
// ledger or the service layer.
type Store interface {
	BalanceStore
	ExpenseStore
	GroupStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
