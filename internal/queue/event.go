// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them in the reservation audit log.
package queue

import "time"

// ReservationQueue is the durable queue carrying reservation lifecycle events.
const ReservationQueue = "reservation.events"

// Event types carried in ReservationEvent.Type.
const (
	EventBooked   = "reservation.booked"
	EventPaid     = "reservation.paid"
	EventCanceled = "reservation.canceled"
)

// ReservationEvent is published after a booking, payment or cancellation
// has been committed.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ReservationEvent struct {
	Type          string `json:"type"`
	ReservationID int64  `json:"reservation_id"`
	Username      string `json:"username"`
	LegOneID      int    `json:"fid1"`
	LegTwoID      int    `json:"fid2,omitempty"`
	DayOfMonth    int    `json:"day_of_month"`
	Price         int    `json:"price"`
	Refund        int    `json:"refund,omitempty"`  // set on cancellation of a paid reservation
	Balance       int    `json:"balance,omitempty"` // owner's balance after payment
	OccurredAt    string `json:"occurred_at"`
}

// Stamp sets OccurredAt to the current UTC time in RFC 3339 form.
func (e *ReservationEvent) Stamp() {
	e.OccurredAt = time.Now().UTC().Format(time.RFC3339)
}
