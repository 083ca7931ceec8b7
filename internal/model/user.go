package model

// User represents an account record as stored in the `users` table.
// The password is kept as the opaque byte sequence produced by the
// password encoder; the booking core only ever compares it for equality.
//
// Fields:
//  Username – unique login name (primary key).
//  Password – encoded password bytes.
//  Balance  – spendable amount in whole currency units, never negative.
type User struct {
	Username string // users.username
	Password []byte // users.password
	Balance  int    // users.balance
}
