// Package repository issues the parameterized queries of the booking
// store.  Methods suffixed with Tx run inside a caller-owned transaction;
// the caller commits or rolls back.  The sentinel values below let the
// booking engine tell business conditions apart from store failures.
package repository

import "errors"

// ErrNotFound is returned when the addressed row does not exist (or is
// not visible to the caller, e.g. a reservation of another user).
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique key.
var ErrDuplicate = errors.New("duplicate")

// ErrNoCapacity is returned when a flight has no seat left to sell.
var ErrNoCapacity = errors.New("no remaining capacity")

// ErrInsufficientFunds is returned when a debit would make a balance
// negative.
var ErrInsufficientFunds = errors.New("insufficient funds")
