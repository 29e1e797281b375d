// Package models defines the core domain models for pokett.
//
// # Models
//
//   - Balance: a netted pairwise debt between two users, global or scoped to a group
//   - Expense: an amount paid by one user and shared by others
//   - Group: a set of members and the expenses recorded against them
//   - User: profile data resolved from the identity directory
//
// # Design Principles
//
// 1. **Opaque identifiers**: users, groups and expenses reference each other by ID newtypes,
// never by pointer. Joins happen explicitly at read time.
// 2. **Exact money**: amounts are decimals so a balance can be compared to zero exactly.
// 3. **Direction encodes sign**: a stored Balance always has a positive Amount; who owes whom is
// carried by Creditor and Debtor.
package models
