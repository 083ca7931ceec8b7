package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a failed engine operation.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindAlreadyLoggedIn
	KindInvalidCredentials
	KindDuplicatePassword
	KindInvalidInitialBalance
	KindUserExists
	KindNoMatch
	KindUnknownItinerary
	KindFlightFull
	KindSameDayBooking
	KindReservationNotFound
	KindInsufficientBalance
	KindNoReservations
	KindLoginFailed
	KindCreateUserFailed
	KindSearchFailed
	KindBookingFailed
	KindPaymentFailed
	KindListFailed
	KindCancelFailed
	KindTransactionIntegrityViolation
)

var kindNames = map[Kind]string{
	KindUnknown:                       "unknown",
	KindNotAuthenticated:              "not authenticated",
	KindAlreadyLoggedIn:               "already logged in",
	KindInvalidCredentials:            "invalid credentials",
	KindDuplicatePassword:             "duplicate password",
	KindInvalidInitialBalance:         "invalid initial balance",
	KindUserExists:                    "user exists",
	KindNoMatch:                       "no match",
	KindUnknownItinerary:              "unknown itinerary",
	KindFlightFull:                    "flight full",
	KindSameDayBooking:                "same day booking",
	KindReservationNotFound:           "reservation not found",
	KindInsufficientBalance:           "insufficient balance",
	KindNoReservations:                "no reservations",
	KindLoginFailed:                   "login failed",
	KindCreateUserFailed:              "create user failed",
	KindSearchFailed:                  "search failed",
	KindBookingFailed:                 "booking failed",
	KindPaymentFailed:                 "payment failed",
	KindListFailed:                    "list reservations failed",
	KindCancelFailed:                  "cancel failed",
	KindTransactionIntegrityViolation: "transaction integrity violation",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fatal reports whether the kind signals a broken engine rather than a
// business condition.
func (k Kind) Fatal() bool { return k == KindTransactionIntegrityViolation }

// Error is returned by every Engine operation.  Business conditions carry
// a specific Kind; store failures carry the operation's generic kind and
// wrap the underlying error.
type Error struct {
	Kind    Kind
	Op      string
	Handle  int   // itinerary handle for KindUnknownItinerary
	ID      int64 // reservation ID for reservation kinds
	Balance int   // current balance for KindInsufficientBalance
	Due     int   // amount due for KindInsufficientBalance
	Err     error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch e.Kind {
	case KindUnknownItinerary:
		msg += fmt.Sprintf(" %d", e.Handle)
	case KindReservationNotFound, KindPaymentFailed, KindCancelFailed:
		if e.ID != 0 {
			msg += fmt.Sprintf(" %d", e.ID)
		}
	case KindInsufficientBalance:
		msg += fmt.Sprintf(" (balance %d, due %d)", e.Balance, e.Due)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the sentinels below work
// with errors.Is regardless of payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotAuthenticated              = &Error{Kind: KindNotAuthenticated}
	ErrAlreadyLoggedIn               = &Error{Kind: KindAlreadyLoggedIn}
	ErrInvalidCredentials            = &Error{Kind: KindInvalidCredentials}
	ErrDuplicatePassword             = &Error{Kind: KindDuplicatePassword}
	ErrInvalidInitialBalance         = &Error{Kind: KindInvalidInitialBalance}
	ErrUserExists                    = &Error{Kind: KindUserExists}
	ErrNoMatch                       = &Error{Kind: KindNoMatch}
	ErrUnknownItinerary              = &Error{Kind: KindUnknownItinerary}
	ErrFlightFull                    = &Error{Kind: KindFlightFull}
	ErrSameDayBooking                = &Error{Kind: KindSameDayBooking}
	ErrReservationNotFound           = &Error{Kind: KindReservationNotFound}
	ErrInsufficientBalance           = &Error{Kind: KindInsufficientBalance}
	ErrNoReservations                = &Error{Kind: KindNoReservations}
	ErrLoginFailed                   = &Error{Kind: KindLoginFailed}
	ErrCreateUserFailed              = &Error{Kind: KindCreateUserFailed}
	ErrSearchFailed                  = &Error{Kind: KindSearchFailed}
	ErrBookingFailed                 = &Error{Kind: KindBookingFailed}
	ErrPaymentFailed                 = &Error{Kind: KindPaymentFailed}
	ErrListFailed                    = &Error{Kind: KindListFailed}
	ErrCancelFailed                  = &Error{Kind: KindCancelFailed}
	ErrTransactionIntegrityViolation = &Error{Kind: KindTransactionIntegrityViolation}
)

// KindOf returns the Kind of err, or KindUnknown when err is not an
// engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func fail(op string, kind Kind) *Error { return &Error{Kind: kind, Op: op} }
