package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the stored netted debt between two users within one scope.
// Amount is always strictly positive; a balance that nets to zero is deleted.
type Balance struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// Creditor is the user who is owed money.
	Creditor UserID

	// Debtor is the user who owes money.
	Debtor UserID

	// Amount is the magnitude of the debt.
	Amount decimal.Decimal

	// GroupID scopes the balance to a group. Global balances leave it empty.
	GroupID GroupID

	// CreatedAt is when the record was first written.
	CreatedAt time.Time

	// UpdatedAt orders records of the same pair during consolidation.
	UpdatedAt time.Time
}

// SignedFor returns the balance from user's perspective: positive when the
// other party owes user, negative when user owes the other party.
func (b *Balance) SignedFor(user UserID) decimal.Decimal {
	if b.Creditor == user {
		return b.Amount
	}
	return b.Amount.Neg()
}

// Counterparty returns the other user of the record.
func (b *Balance) Counterparty(user UserID) UserID {
	if b.Creditor == user {
		return b.Debtor
	}
	return b.Creditor
}

// UserBalance is a signed net amount between the querying user and UserID.
// Positive means UserID owes the querying user.
type UserBalance struct {
	UserID UserID
	Amount decimal.Decimal
}

// PairKey identifies the unordered pair of users within a scope.
type PairKey struct {
	A     UserID
	B     UserID
	Group GroupID
}

// NewPairKey builds a normalized key for the pair {a, b} in group.
func NewPairKey(a, b UserID, group GroupID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b, Group: group}
}

// String renders the key for use in lock names.
func (k PairKey) String() string {
	scope := "global"
	if !k.Group.IsGlobal() {
		scope = "group:" + string(k.Group)
	}
	return fmt.Sprintf("%s:%s:%s", scope, k.A, k.B)
}
