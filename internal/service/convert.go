package service

import (
	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/expense"
	"github.com/cocoexperiments/pokett-be/internal/group"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/pkg/rpc"
)

// The converters below are shared with the REST handlers.

func BalancesToRPC(balances []models.UserBalance) []rpc.Balance {
	out := make([]rpc.Balance, 0, len(balances))
	for _, b := range balances {
		out = append(out, rpc.Balance{UserID: string(b.UserID), Amount: b.Amount})
	}
	return out
}

func ExpenseToRPC(e *models.Expense) *rpc.Expense {
	shares := make([]rpc.Share, 0, len(e.Shares))
	for _, s := range e.Shares {
		shares = append(shares, rpc.Share{UserID: string(s.UserID), Amount: s.Amount})
	}
	return &rpc.Expense{
		ID:          string(e.ID),
		GroupID:     string(e.GroupID),
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
		Description: e.Description,
		PaidBy:      string(e.PaidBy),
		Shares:      shares,
		CreatedAt:   e.CreatedAt,
	}
}

func ExpensesToRPC(expenses []*models.Expense) []*rpc.Expense {
	out := make([]*rpc.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseToRPC(e))
	}
	return out
}

// CreateParamsFromRPC maps a create request onto recorder parameters.
// Every amount, on the expense and on each share, must be present.
func CreateParamsFromRPC(req *rpc.CreateExpenseRequest) (expense.CreateParams, error) {
	if !req.Amount.Valid {
		return expense.CreateParams{}, apperr.Validation("amount is required")
	}
	shares := make([]models.Share, 0, len(req.Shares))
	for i, s := range req.Shares {
		if !s.Amount.Valid {
			return expense.CreateParams{}, apperr.Validation("shares[%d].amount is required", i)
		}
		shares = append(shares, models.Share{UserID: models.UserID(s.UserID), Amount: s.Amount.Decimal})
	}
	return expense.CreateParams{
		Amount:      req.Amount.Decimal,
		Description: req.Description,
		PaidBy:      models.UserID(req.PaidBy),
		Shares:      shares,
		CategoryID:  req.CategoryID,
		GroupID:     models.GroupID(req.GroupID),
	}, nil
}

func GroupToRPC(g *models.Group) *rpc.Group {
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, string(m))
	}
	expenseIDs := make([]string, 0, len(g.ExpenseIDs))
	for _, id := range g.ExpenseIDs {
		expenseIDs = append(expenseIDs, string(id))
	}
	return &rpc.Group{
		ID:         string(g.ID),
		Name:       g.Name,
		Members:    members,
		ExpenseIDs: expenseIDs,
		CreatedAt:  g.CreatedAt,
	}
}

func UserIDsFromRPC(ids []string) []models.UserID {
	out := make([]models.UserID, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.UserID(id))
	}
	return out
}

func StatsToRPC(stats *group.Stats) *rpc.GetGroupStatsResponse {
	members := make([]rpc.MemberBalance, 0, len(stats.MemberBalances))
	for _, mb := range stats.MemberBalances {
		members = append(members, rpc.MemberBalance{
			UserID:       string(mb.UserID),
			Name:         mb.Name,
			Email:        mb.Email,
			TotalBalance: mb.TotalBalance,
			Owes:         BalancesToRPC(mb.Owes),
			IsOwed:       BalancesToRPC(mb.IsOwed),
		})
	}
	return &rpc.GetGroupStatsResponse{
		TotalSpent:     stats.TotalSpent,
		MemberBalances: members,
	}
}

func UserToRPC(u *models.User) rpc.User {
	return rpc.User{ID: string(u.ID), Name: u.Name, Email: u.Email}
}
