package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cocoexperiments/pokett-be/internal/models"
	"github.com/cocoexperiments/pokett-be/internal/storage"
)

const balanceColumns = "id, creditor_id, debtor_id, amount, group_id, created_at, updated_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBalance(row rowScanner) (*models.Balance, error) {
	b := &models.Balance{}
	var creditor, debtor string
	var group sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&b.ID, &creditor, &debtor, &b.Amount, &group, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.Creditor = models.UserID(creditor)
	b.Debtor = models.UserID(debtor)
	if group.Valid {
		b.GroupID = models.GroupID(group.String)
	}
	b.CreatedAt = fromNanos(createdAt)
	b.UpdatedAt = fromNanos(updatedAt)
	return b, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryBalances(ctx context.Context, q queryer, query string, args ...any) ([]*models.Balance, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	var balances []*models.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}
	return balances, nil
}

// MutatePair reads the records of one pair in one scope, hands them to fn and
// writes the outcome back in the same transaction.
func (s *SQLiteStore) MutatePair(ctx context.Context, key models.PairKey, fn storage.PairMutation) error {
	scope, scopeArgs := scopeClause(key.Group)
	query := `SELECT ` + balanceColumns + ` FROM balances
		WHERE ((creditor_id = ? AND debtor_id = ?) OR (creditor_id = ? AND debtor_id = ?))
		AND ` + scope + `
		ORDER BY updated_at ASC, created_at ASC`
	args := append([]any{string(key.A), string(key.B), string(key.B), string(key.A)}, scopeArgs...)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := queryBalances(ctx, tx, query, args...)
		if err != nil {
			return err
		}

		result, err := fn(existing)
		if err != nil {
			return err
		}

		now := s.now()
		kept := ""
		if result != nil && result.ID != "" {
			kept = result.ID
			found := false
			for _, b := range existing {
				if b.ID == kept {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("pair mutation returned unknown balance %s", kept)
			}
		}

		for _, b := range existing {
			if b.ID == kept {
				continue
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM balances WHERE id = ?", b.ID); err != nil {
				return fmt.Errorf("failed to delete balance: %w", err)
			}
		}

		if result == nil {
			return nil
		}

		if kept != "" {
			result.UpdatedAt = now
			_, err := tx.ExecContext(ctx,
				"UPDATE balances SET creditor_id = ?, debtor_id = ?, amount = ?, updated_at = ? WHERE id = ?",
				string(result.Creditor), string(result.Debtor), result.Amount.String(), toNanos(now), kept,
			)
			if err != nil {
				return fmt.Errorf("failed to update balance: %w", err)
			}
			return nil
		}

		result.ID = uuid.New().String()
		result.CreatedAt = now
		result.UpdatedAt = now
		return insertBalance(ctx, tx, result)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertBalance(ctx context.Context, e execer, b *models.Balance) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO balances (`+balanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Creditor), string(b.Debtor), b.Amount.String(), nullGroup(b.GroupID),
		toNanos(b.CreatedAt), toNanos(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}
	return nil
}

// InsertBalance writes a record without consolidating it with existing ones.
func (s *SQLiteStore) InsertBalance(ctx context.Context, balance *models.Balance) error {
	if balance.ID == "" {
		balance.ID = uuid.New().String()
	}
	now := s.now()
	if balance.CreatedAt.IsZero() {
		balance.CreatedAt = now
	}
	if balance.UpdatedAt.IsZero() {
		balance.UpdatedAt = balance.CreatedAt
	}
	return insertBalance(ctx, s.db, balance)
}

// ListBalances retrieves the records involving user in one scope.
func (s *SQLiteStore) ListBalances(ctx context.Context, user models.UserID, group models.GroupID) ([]*models.Balance, error) {
	scope, scopeArgs := scopeClause(group)
	query := `SELECT ` + balanceColumns + ` FROM balances
		WHERE (creditor_id = ? OR debtor_id = ?) AND ` + scope + `
		ORDER BY updated_at ASC`
	args := append([]any{string(user), string(user)}, scopeArgs...)
	return queryBalances(ctx, s.db, query, args...)
}

// ListAllBalances retrieves the records involving user in every scope.
func (s *SQLiteStore) ListAllBalances(ctx context.Context, user models.UserID) ([]*models.Balance, error) {
	return queryBalances(ctx, s.db,
		`SELECT `+balanceColumns+` FROM balances WHERE creditor_id = ? OR debtor_id = ? ORDER BY updated_at ASC`,
		string(user), string(user),
	)
}
