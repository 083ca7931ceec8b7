package model

// Reservation records a booking of one itinerary by one user.
//
// Fields:
//  ID          – globally unique, strictly increasing identifier.
//  ItineraryID – handle the itinerary had in the owner's search; historical only.
//  Username    – owner of the reservation.
//  Paid        – whether the price has been debited from the owner.
//  Price       – sum of the legs' prices at booking time; immutable.
//  LegOneID    – first flight.
//  LegTwoID    – second flight or NoLeg.
//  DayOfMonth  – travel day of the itinerary.
type Reservation struct {
	ID          int64  `json:"reservation_id"` // reservations.rid
	ItineraryID int    `json:"itinerary"`      // reservations.iid
	Username    string `json:"username"`       // reservations.username
	Paid        bool   `json:"paid"`           // reservations.paid
	Price       int    `json:"price"`          // reservations.price
	LegOneID    int    `json:"fid1"`           // reservations.fid1
	LegTwoID    int    `json:"fid2"`           // reservations.fid2 (nullable)
	DayOfMonth  int    `json:"day_of_month"`   // reservations.day_of_month
}

// ReservationDetail couples a reservation with the flight rows of its
// legs as they looked inside the listing transaction.
type ReservationDetail struct {
	Reservation
	Flights []Flight `json:"flights"`
}
