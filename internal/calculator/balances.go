package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/models"
)

// MemberSummary is one user's standing within a scope.
type MemberSummary struct {
	// Owes lists counterparties the user owes money to (negative amounts).
	Owes []models.UserBalance

	// IsOwed lists counterparties that owe the user (positive amounts).
	IsOwed []models.UserBalance

	// TotalBalance is the sum of all signed entries.
	// Positive = owed money overall, negative = owes money overall.
	TotalBalance decimal.Decimal
}

// FoldBalances partitions signed per-counterparty balances into what the
// user owes and what the user is owed. Zero entries appear in neither list.
func FoldBalances(balances []models.UserBalance) MemberSummary {
	summary := MemberSummary{
		Owes:         []models.UserBalance{},
		IsOwed:       []models.UserBalance{},
		TotalBalance: decimal.Zero,
	}
	for _, b := range balances {
		switch b.Amount.Sign() {
		case -1:
			summary.Owes = append(summary.Owes, b)
		case 1:
			summary.IsOwed = append(summary.IsOwed, b)
		}
		summary.TotalBalance = summary.TotalBalance.Add(b.Amount)
	}
	return summary
}

// NetByCounterparty sums the records involving user into one signed amount
// per counterparty, dropping counterparties that net to zero. The result is
// sorted by user ID.
func NetByCounterparty(user models.UserID, records []*models.Balance) []models.UserBalance {
	net := make(map[models.UserID]decimal.Decimal)
	for _, r := range records {
		other := r.Counterparty(user)
		net[other] = net[other].Add(r.SignedFor(user))
	}

	result := make([]models.UserBalance, 0, len(net))
	for other, amount := range net {
		if amount.IsZero() {
			continue
		}
		result = append(result, models.UserBalance{UserID: other, Amount: amount})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result
}
