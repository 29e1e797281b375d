package models

// UserID identifies a user issued by the identity provider.
type UserID string

// GroupID identifies a group. The zero value denotes the global scope.
type GroupID string

// ExpenseID identifies an expense.
type ExpenseID string

// Global is the scope of balances that do not belong to any group.
const Global GroupID = ""

// IsGlobal reports whether g denotes the global scope.
func (g GroupID) IsGlobal() bool { return g == Global }

func (u UserID) String() string    { return string(u) }
func (g GroupID) String() string   { return string(g) }
func (e ExpenseID) String() string { return string(e) }
