package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cocoexperiments/pokett-be/internal/apperr"
	"github.com/cocoexperiments/pokett-be/internal/models"
)

const expenseColumns = "id, group_id, amount, category_id, description, paid_by, created_at"

// CreateExpense persists a new expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = models.ExpenseID(uuid.New().String())
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = s.now()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(expense.ID), nullGroup(expense.GroupID), expense.Amount.String(), expense.CategoryID,
			expense.Description, string(expense.PaidBy), toNanos(expense.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i, share := range expense.Shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_shares (expense_id, position, user_id, amount) VALUES (?, ?, ?, ?)",
				string(expense.ID), i, string(share.UserID), share.Amount.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense share: %w", err)
			}
		}
		return nil
	})
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var id, paidBy string
	var group sql.NullString
	var createdAt int64
	if err := row.Scan(&id, &group, &e.Amount, &e.CategoryID, &e.Description, &paidBy, &createdAt); err != nil {
		return nil, err
	}
	e.ID = models.ExpenseID(id)
	e.PaidBy = models.UserID(paidBy)
	if group.Valid {
		e.GroupID = models.GroupID(group.String)
	}
	e.CreatedAt = fromNanos(createdAt)
	return e, nil
}

// GetExpense retrieves an expense by ID, including its shares.
func (s *SQLiteStore) GetExpense(ctx context.Context, id models.ExpenseID) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, string(id),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Expense", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadShares(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves expenses newest first, optionally for one group.
func (s *SQLiteStore) ListExpenses(ctx context.Context, group models.GroupID) ([]*models.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses`
	var args []any
	if !group.IsGlobal() {
		query += ` WHERE group_id = ?`
		args = append(args, string(group))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadShares(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadShares fills in Shares for each expense with a single query.
func (s *SQLiteStore) loadShares(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[models.ExpenseID]*models.Expense, len(expenses))
	args := make([]any, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		args[i] = string(e.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, user_id, amount FROM expense_shares
		 WHERE expense_id IN (`+placeholders(len(args))+`)
		 ORDER BY expense_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID, userID string
		var share models.Share
		if err := rows.Scan(&expenseID, &userID, &share.Amount); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		share.UserID = models.UserID(userID)
		if e, ok := byID[models.ExpenseID(expenseID)]; ok {
			e.Shares = append(e.Shares, share)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense shares: %w", err)
	}
	return nil
}
