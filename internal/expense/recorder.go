// Package expense records expenses and turns their shares into ledger deltas.
package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/calculator"
	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage"
)

// ErrPartiallyApplied means the expense was saved but not every ledger
// update or group link that follows it went through. Earlier updates are not
// rolled back.
var ErrPartiallyApplied = errors.New("expense recorded but not fully applied")

// BalanceApplier is the part of the ledger the recorder needs.
type BalanceApplier interface {
	ApplyDelta(ctx context.Context, userA, userB models.UserID, amount decimal.Decimal, group models.GroupID) error
}

// Store is the persistence the recorder needs.
type Store interface {
	storage.ExpenseStore
	GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error)
	AddGroupExpense(ctx context.Context, id models.GroupID, expenseID models.ExpenseID) error
}

// CreateParams describes a new expense.
type CreateParams struct {
	Amount      decimal.Decimal
	Description string
	PaidBy      models.UserID
	Shares      []models.Share
	CategoryID  string
	GroupID     models.GroupID
}

// Validate checks the fields that must be present. It does not check that
// the shares add up to Amount.
func (p CreateParams) Validate() error {
	if p.PaidBy == "" {
		return apperr.Validation("paidBy is required")
	}
	if p.CategoryID == "" {
		return apperr.Validation("categoryId is required")
	}
	if len(p.Shares) == 0 {
		return apperr.Validation("at least one share is required")
	}
	for i, share := range p.Shares {
		if share.UserID == "" {
			return apperr.Validation("shares[%d].userId is required", i)
		}
	}
	return nil
}

// Recorder creates expenses and updates the ledger for them.
type Recorder struct {
	store  Store
	ledger BalanceApplier
}

// NewRecorder creates a Recorder.
func NewRecorder(store Store, ledger BalanceApplier) *Recorder {
	return &Recorder{store: store, ledger: ledger}
}

// CreateExpense persists the expense, then makes every participant other
// than the payer owe the payer their share, scoped to the expense's group.
// Group expenses are appended to the group's expense list last.
//
// The steps after the insert are not transactional. If one fails, the
// returned error wraps ErrPartiallyApplied and names the expense.
func (r *Recorder) CreateExpense(ctx context.Context, params CreateParams) (*models.Expense, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if !params.GroupID.IsGlobal() {
		if _, err := r.store.GetGroup(ctx, params.GroupID); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		GroupID:     params.GroupID,
		Amount:      params.Amount,
		CategoryID:  params.CategoryID,
		Description: params.Description,
		PaidBy:      params.PaidBy,
		Shares:      params.Shares,
	}
	if err := r.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	deltas := calculator.ShareDeltas(expense.PaidBy, expense.Shares)
	for i, d := range deltas {
		if err := r.ledger.ApplyDelta(ctx, d.Creditor, d.Debtor, d.Amount, expense.GroupID); err != nil {
			slog.Error("Expense partially applied to ledger",
				"expense_id", expense.ID,
				"applied", i,
				"total", len(deltas),
				"debtor", d.Debtor,
				"error", err,
			)
			return nil, fmt.Errorf("%w: expense %s, %d of %d balance updates applied: %w",
				ErrPartiallyApplied, expense.ID, i, len(deltas), err)
		}
	}

	if !expense.GroupID.IsGlobal() {
		if err := r.store.AddGroupExpense(ctx, expense.GroupID, expense.ID); err != nil {
			slog.Error("Failed to link expense to group",
				"expense_id", expense.ID,
				"group_id", expense.GroupID,
				"error", err,
			)
			return nil, fmt.Errorf("%w: expense %s not linked to group %s: %w",
				ErrPartiallyApplied, expense.ID, expense.GroupID, err)
		}
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"paid_by", expense.PaidBy,
		"amount", expense.Amount.String(),
		"shares", len(expense.Shares),
		"shares_total", calculator.SumShares(expense.Shares).String(),
	)
	return expense, nil
}

// GetExpense retrieves one expense.
func (r *Recorder) GetExpense(ctx context.Context, id models.ExpenseID) (*models.Expense, error) {
	if id == "" {
		return nil, apperr.Validation("expense ID is required")
	}
	return r.store.GetExpense(ctx, id)
}

// ListExpenses returns expenses newest first, restricted to group unless it
// is models.Global.
func (r *Recorder) ListExpenses(ctx context.Context, group models.GroupID) ([]*models.Expense, error) {
	expenses, err := r.store.ListExpenses(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}
