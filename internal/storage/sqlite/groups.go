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

// CreateGroup persists a new group and its member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = models.GroupID(uuid.New().String())
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = s.now()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
			string(group.ID), group.Name, toNanos(group.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i, member := range group.Members {
			_, err = tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
				string(group.ID), string(member), i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group by ID with its members and expense IDs.
func (s *SQLiteStore) GetGroup(ctx context.Context, id models.GroupID) (*models.Group, error) {
	group := &models.Group{}
	var groupID string
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?", string(id),
	).Scan(&groupID, &group.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Group", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.ID = models.GroupID(groupID)
	group.CreatedAt = fromNanos(createdAt)

	members, err := s.queryStrings(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY position", string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	for _, m := range members {
		group.Members = append(group.Members, models.UserID(m))
	}

	expenseIDs, err := s.queryStrings(ctx,
		"SELECT expense_id FROM group_expenses WHERE group_id = ? ORDER BY added_at, rowid", string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get group expenses: %w", err)
	}
	for _, e := range expenseIDs {
		group.ExpenseIDs = append(group.ExpenseIDs, models.ExpenseID(e))
	}

	return group, nil
}

// AddGroupExpense appends an expense to the group's list.
func (s *SQLiteStore) AddGroupExpense(ctx context.Context, id models.GroupID, expenseID models.ExpenseID) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_expenses (group_id, expense_id, added_at)
		 SELECT id, ?, ? FROM groups WHERE id = ?`,
		string(expenseID), toNanos(s.now()), string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to add group expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to add group expense: %w", err)
	}
	if n == 0 {
		// Either the group is missing or the expense is already listed.
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", string(id)).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("Group", id)
		}
		if err != nil {
			return fmt.Errorf("failed to check group existence: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
