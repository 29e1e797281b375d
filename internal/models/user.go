package models

import "time"

// User is the profile of an identity-provider user as known to the directory.
// The ledger never looks at it; it is joined in only when rendering views.
type User struct {
	// ID is the identity provider's user identifier.
	ID UserID

	// Name is the display name of the user.
	Name string

	// Email is the user's email address, optional.
	Email string

	// CreatedAt is when the user was first seen.
	CreatedAt time.Time
}
