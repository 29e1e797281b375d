// Package group manages groups and derives per-group spending statistics.
package group

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/calculator"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage"
)

// BalanceReader is the part of the ledger the aggregator needs.
type BalanceReader interface {
	GetUserBalances(ctx context.Context, userID models.UserID, group models.GroupID) ([]models.UserBalance, error)
}

// Store is the persistence the aggregator needs.
type Store interface {
	storage.GroupStore
	ListExpenses(ctx context.Context, group models.GroupID) ([]*models.Expense, error)
	GetUsersByIDs(ctx context.Context, ids []models.UserID) (map[models.UserID]*models.User, error)
}

// Stats summarizes spending and balances within one group.
type Stats struct {
	// TotalSpent is the gross amount of the group's expenses.
	TotalSpent decimal.Decimal

	// MemberBalances has one entry per member, in membership order.
	MemberBalances []MemberBalance
}

// MemberBalance is one member's standing in the group.
type MemberBalance struct {
	UserID models.UserID
	Name   string
	Email  string

	calculator.MemberSummary
}

// Aggregator builds group views from the store and the ledger.
type Aggregator struct {
	store  Store
	ledger BalanceReader
}

// NewAggregator creates an Aggregator.
func NewAggregator(store Store, ledger BalanceReader) *Aggregator {
	return &Aggregator{store: store, ledger: ledger}
}

// CreateGroup creates a group. Duplicate members are dropped, keeping the
// first occurrence.
func (a *Aggregator) CreateGroup(ctx context.Context, name string, members []models.UserID) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("group name is required")
	}

	seen := make(map[models.UserID]bool, len(members))
	unique := make([]models.UserID, 0, len(members))
	for i, m := range members {
		if m == "" {
			return nil, apperr.Validation("members[%d] is empty", i)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		unique = append(unique, m)
	}

	group := &models.Group{Name: name, Members: unique}
	if err := a.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// GetGroup retrieves a group.
func (a *Aggregator) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	if id.IsGlobal() {
		return nil, apperr.Validation("group ID is required")
	}
	return a.store.GetGroup(ctx, id)
}

// GetGroupStats returns the group's gross spend and every member's balances
// within the group. Member names and emails come from the user directory;
// members unknown to it are listed with their ID only.
func (a *Aggregator) GetGroupStats(ctx context.Context, id models.GroupID) (*Stats, error) {
	group, err := a.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	expenses, err := a.groupExpenses(ctx, group)
	if err != nil {
		return nil, err
	}

	users, err := a.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	stats := &Stats{
		TotalSpent:     calculator.TotalSpent(expenses),
		MemberBalances: make([]MemberBalance, 0, len(group.Members)),
	}
	for _, member := range group.Members {
		balances, err := a.ledger.GetUserBalances(ctx, member, group.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get balances for %s: %w", member, err)
		}

		mb := MemberBalance{
			UserID:        member,
			MemberSummary: calculator.FoldBalances(balances),
		}
		if u, ok := users[member]; ok {
			mb.Name = u.Name
			mb.Email = u.Email
		}
		stats.MemberBalances = append(stats.MemberBalances, mb)
	}
	return stats, nil
}

// groupExpenses returns the expenses on the group's expense list.
func (a *Aggregator) groupExpenses(ctx context.Context, group *models.Group) ([]*models.Expense, error) {
	listed := make(map[models.ExpenseID]bool, len(group.ExpenseIDs))
	for _, id := range group.ExpenseIDs {
		listed[id] = true
	}

	all, err := a.store.ListExpenses(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group expenses: %w", err)
	}

	expenses := make([]*models.Expense, 0, len(all))
	for _, e := range all {
		if listed[e.ID] {
			expenses = append(expenses, e)
		}
	}
	return expenses, nil
}
