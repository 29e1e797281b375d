// Package calculator holds the pure arithmetic behind expenses and balances.
// Nothing here touches storage.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/models"
)

// Delta is one signed adjustment to apply to the ledger: Creditor is owed
// Amount more by Debtor.
type Delta struct {
	Creditor models.UserID
	Debtor   models.UserID
	Amount   decimal.Decimal
}

// ShareDeltas derives the ledger adjustments for an expense paid by payer.
//
// Algorithm:
//   - The payer's own share produces no adjustment
//   - Every other share makes its user owe the payer the share amount
//
// Shares are kept in order and are not merged, so a participant listed twice
// yields two deltas. Shares are not checked against the expense total.
func ShareDeltas(payer models.UserID, shares []models.Share) []Delta {
	deltas := make([]Delta, 0, len(shares))
	for _, share := range shares {
		if share.UserID == payer {
			continue
		}
		deltas = append(deltas, Delta{
			Creditor: payer,
			Debtor:   share.UserID,
			Amount:   share.Amount,
		})
	}
	return deltas
}

// SumShares returns the total of all share amounts.
func SumShares(shares []models.Share) decimal.Decimal {
	total := decimal.Zero
	for _, share := range shares {
		total = total.Add(share.Amount)
	}
	return total
}

// TotalSpent returns the gross amount across expenses.
// Shares play no part: this is spend, not net debt.
func TotalSpent(expenses []*models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
