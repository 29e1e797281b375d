package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cocoexperiments/pokett-be/internal/models"
)

// CreateUser adds a user to the directory. An existing user with the same ID
// has its name and email replaced.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email`,
		string(user.ID), user.Name, nullString(user.Email), toNanos(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []models.UserID) (map[models.UserID]*models.User, error) {
	users := make(map[models.UserID]*models.User)
	if len(ids) == 0 {
		return users, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		user := &models.User{}
		var id string
		var email sql.NullString
		var createdAt int64
		if err := rows.Scan(&id, &user.Name, &email, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.ID = models.UserID(id)
		if email.Valid {
			user.Email = email.String
		}
		user.CreatedAt = fromNanos(createdAt)
		users[user.ID] = user
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
