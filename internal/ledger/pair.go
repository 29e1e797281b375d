package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/models"
)

// netFor sums records into one signed amount from user's perspective.
// Positive means user is owed.
func netFor(user models.UserID, records []*models.Balance) decimal.Decimal {
	net := decimal.Zero
	for _, r := range records {
		net = net.Add(r.SignedFor(user))
	}
	return net
}

// residual builds a fresh record for a signed net from userA's perspective,
// or nil when the pair nets to zero.
func residual(userA, userB models.UserID, net decimal.Decimal, group models.GroupID) *models.Balance {
	switch net.Sign() {
	case 0:
		return nil
	case 1:
		return &models.Balance{Creditor: userA, Debtor: userB, Amount: net, GroupID: group}
	default:
		return &models.Balance{Creditor: userB, Debtor: userA, Amount: net.Abs(), GroupID: group}
	}
}

// applySigned adds amount to the pair from userA's perspective.
//
// With no existing record a new one is created. Otherwise the oldest record
// is adjusted in place, flipping creditor and debtor when the net crosses
// zero; any further records left over from older data are folded into it.
// A net of exactly zero removes the pair.
func applySigned(existing []*models.Balance, userA, userB models.UserID, amount decimal.Decimal, group models.GroupID) *models.Balance {
	net := netFor(userA, existing).Add(amount)
	next := residual(userA, userB, net, group)
	if next == nil || len(existing) == 0 {
		return next
	}

	kept := *existing[0]
	kept.Creditor = next.Creditor
	kept.Debtor = next.Debtor
	kept.Amount = next.Amount
	return &kept
}

// counterparties lists the users with a non-zero net against user in at
// least one scope.
func counterparties(user models.UserID, records []*models.Balance) []models.UserID {
	type scoped struct {
		other models.UserID
		group models.GroupID
	}
	net := make(map[scoped]decimal.Decimal)
	for _, r := range records {
		k := scoped{other: r.Counterparty(user), group: r.GroupID}
		net[k] = net[k].Add(r.SignedFor(user))
	}

	seen := make(map[models.UserID]bool)
	var result []models.UserID
	for k, amount := range net {
		if amount.IsZero() || seen[k.other] {
			continue
		}
		seen[k.other] = true
		result = append(result, k.other)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
