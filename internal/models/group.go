package models

import "time"

// Group is a set of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID GroupID

	// Name is the display name of the group (e.g., "Weekend Trip").
	Name string

	// Members are the users belonging to the group.
	Members []UserID

	// ExpenseIDs lists the expenses recorded against the group, oldest first.
	ExpenseIDs []ExpenseID

	// CreatedAt is when the group was created.
	CreatedAt time.Time
}

// HasMember reports whether user belongs to the group.
func (g *Group) HasMember(user UserID) bool {
	for _, m := range g.Members {
		if m == user {
			return true
		}
	}
	return false
}
