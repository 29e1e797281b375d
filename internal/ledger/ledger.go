// Package ledger maintains the netted pairwise balances between users.
//
// At most one record exists per unordered pair of users within a scope
// (global or one group). Each record has a strictly positive amount, and a
// pair that nets to zero has no record at all.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/calculator"
	"github.com/cocoexperiments/pokett-be/internal/lock"
	"github.com/cocoexperiments/pokett-be/internal/metrics"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage"
)

// Operation names used in metrics.
const (
	opApplyDelta      = "apply_delta"
	opGetUserBalances = "get_user_balances"
	opSettle          = "settle"
	opFriends         = "friends"
)

// Ledger applies deltas and settlements to pairwise balances.
type Ledger struct {
	store   storage.BalanceStore
	locker  lock.Locker
	metrics *metrics.Ledger
}

// New creates a Ledger. A nil locker falls back to an in-process
// lock.KeyedMutex; a nil m disables metrics.
func New(store storage.BalanceStore, locker lock.Locker, m *metrics.Ledger) *Ledger {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Ledger{store: store, locker: locker, metrics: m}
}

// ApplyDelta records that userA is owed amount more by userB within group
// (models.Global for the global scope). A negative amount reverses the
// direction. A zero amount is a no-op.
func (l *Ledger) ApplyDelta(ctx context.Context, userA, userB models.UserID, amount decimal.Decimal, group models.GroupID) (err error) {
	start := time.Now()
	defer func() { l.metrics.Observe(opApplyDelta, start, err) }()

	if userA == userB {
		return apperr.Invariant("cannot apply a balance between user %s and itself", userA)
	}
	if amount.IsZero() {
		return nil
	}

	key := models.NewPairKey(userA, userB, group)
	err = l.mutate(ctx, key, func(existing []*models.Balance) (*models.Balance, error) {
		return applySigned(existing, userA, userB, amount, group), nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply delta: %w", err)
	}

	slog.Debug("Applied balance delta",
		"creditor", userA,
		"debtor", userB,
		"amount", amount.String(),
		"group_id", group,
	)
	return nil
}

// GetUserBalances returns, for every user with a non-zero balance against
// userID in group, the signed amount from userID's perspective: positive
// means the other user owes userID. models.Global selects the global scope
// only. Results are sorted by user ID.
func (l *Ledger) GetUserBalances(ctx context.Context, userID models.UserID, group models.GroupID) (_ []models.UserBalance, err error) {
	start := time.Now()
	defer func() { l.metrics.Observe(opGetUserBalances, start, err) }()

	records, err := l.store.ListBalances(ctx, userID, group)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return calculator.NetByCounterparty(userID, records), nil
}

// Settle consolidates every global record between userA and userB into at
// most one record, after applying a payment of amount from userA to userB.
// The sign of amount is not checked; callers validate it.
func (l *Ledger) Settle(ctx context.Context, userA, userB models.UserID, amount decimal.Decimal) (err error) {
	start := time.Now()
	defer func() { l.metrics.Observe(opSettle, start, err) }()

	if userA == userB {
		return apperr.Invariant("cannot settle a balance between user %s and itself", userA)
	}

	key := models.NewPairKey(userA, userB, models.Global)
	var net decimal.Decimal
	err = l.mutate(ctx, key, func(existing []*models.Balance) (*models.Balance, error) {
		net = netFor(userA, existing).Add(amount)
		return residual(userA, userB, net, models.Global), nil
	})
	if err != nil {
		return fmt.Errorf("failed to settle balance: %w", err)
	}

	slog.Info("Settled balance",
		"payer", userA,
		"payee", userB,
		"amount", amount.String(),
		"net", net.String(),
	)
	return nil
}

// Friends returns every user with whom userID has a non-zero balance in any
// scope, sorted by user ID.
func (l *Ledger) Friends(ctx context.Context, userID models.UserID) (_ []models.UserID, err error) {
	start := time.Now()
	defer func() { l.metrics.Observe(opFriends, start, err) }()

	records, err := l.store.ListAllBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return counterparties(userID, records), nil
}

// mutate runs fn against the pair's records while holding the pair lock.
func (l *Ledger) mutate(ctx context.Context, key models.PairKey, fn storage.PairMutation) error {
	unlock, err := l.locker.Lock(ctx, key.String())
	if err != nil {
		return fmt.Errorf("failed to lock pair %s: %w", key, err)
	}
	defer unlock()

	return l.store.MutatePair(ctx, key, fn)
}
