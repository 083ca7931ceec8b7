package present

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/model"
)

var (
	sea = model.Flight{ID: 1, DayOfMonth: 3, Carrier: "AS", FlightNumber: "24", OriginCity: "Seattle WA",
		DestCity: "Chicago IL", DurationMinutes: 200, Capacity: 9, Price: 150}
	chi = model.Flight{ID: 2, DayOfMonth: 3, Carrier: "UA", FlightNumber: "7", OriginCity: "Chicago IL",
		DestCity: "Boston MA", DurationMinutes: 120, Capacity: 4, Price: 90}
)

func TestFlightLine(t *testing.T) {
	assert.Equal(t,
		"ID: 1 Day: 3 Carrier: AS Number: 24 Origin: Seattle WA Dest: Chicago IL Duration: 200 Capacity: 9 Price: 150\n",
		Flight(sea))
}

func TestSearch(t *testing.T) {
	its := []model.Itinerary{model.NewDirect(0, sea), model.NewConnecting(1, sea, chi)}
	out := Search(its, nil)
	assert.Equal(t, "Itinerary 0: 1 flight(s), 200 minutes\n"+Flight(sea)+
		"Itinerary 1: 2 flight(s), 320 minutes\n"+Flight(sea)+Flight(chi), out)

	assert.Equal(t, "No flights match your selection\n", Search(nil, booking.ErrNoMatch))
	assert.Equal(t, "Failed to search\n", Search(nil, booking.ErrSearchFailed))
	assert.Equal(t, "Failed to search\n", Search(nil, errors.New("boom")))
}

func TestAccountMessages(t *testing.T) {
	assert.Equal(t, "Created user bob\n", CreateUser("bob", nil))
	assert.Equal(t, "Failed to create user\n", CreateUser("bob", booking.ErrUserExists))
	assert.Equal(t, "Logged in as bob\n", Login("bob", nil))
	assert.Equal(t, "User already logged in\n", Login("bob", booking.ErrAlreadyLoggedIn))
	assert.Equal(t, "Login failed\n", Login("bob", booking.ErrInvalidCredentials))
	assert.Equal(t, "Logged out bob\n", Logout("bob", nil))
	assert.Equal(t, "Cannot log out, not logged in\n", Logout("", booking.ErrNotAuthenticated))
}

func TestBookMessages(t *testing.T) {
	assert.Equal(t, "Booked flight(s), reservation ID: 7\n", Book(7, nil))
	assert.Equal(t, "Cannot book reservations, not logged in\n", Book(0, booking.ErrNotAuthenticated))
	assert.Equal(t, "No such itinerary 4\n", Book(0, &booking.Error{Kind: booking.KindUnknownItinerary, Handle: 4}))
	assert.Equal(t, "You cannot book two flights in the same day\n", Book(0, booking.ErrSameDayBooking))
	assert.Equal(t, "Booking failed\n", Book(0, booking.ErrFlightFull))
	assert.Equal(t, "Booking failed\n", Book(0, booking.ErrTransactionIntegrityViolation))
}

func TestPayMessages(t *testing.T) {
	assert.Equal(t, "Paid reservation: 2 remaining balance: 10\n", Pay("bob", 2, 10, nil))
	assert.Equal(t, "Cannot pay, not logged in\n", Pay("", 2, 0, booking.ErrNotAuthenticated))
	assert.Equal(t, "Cannot find unpaid reservation 2 under user: bob\n", Pay("bob", 2, 0, booking.ErrReservationNotFound))
	assert.Equal(t, "User has only 5 in account but itinerary costs 240\n",
		Pay("bob", 2, 0, &booking.Error{Kind: booking.KindInsufficientBalance, Balance: 5, Due: 240}))
	assert.Equal(t, "Failed to pay for reservation 2\n", Pay("bob", 2, 0, booking.ErrPaymentFailed))
}

func TestReservationsAndCancel(t *testing.T) {
	list := []model.ReservationDetail{
		{Reservation: model.Reservation{ID: 1, Paid: true}, Flights: []model.Flight{sea}},
		{Reservation: model.Reservation{ID: 3}, Flights: []model.Flight{sea, chi}},
	}
	assert.Equal(t, "Reservation 1 paid: true:\n"+Flight(sea)+
		"Reservation 3 paid: false:\n"+Flight(sea)+Flight(chi), Reservations(list, nil))
	assert.Equal(t, "No reservations found\n", Reservations(nil, booking.ErrNoReservations))
	assert.Equal(t, "Cannot view reservations, not logged in\n", Reservations(nil, booking.ErrNotAuthenticated))
	assert.Equal(t, "Failed to retrieve reservations\n", Reservations(nil, booking.ErrListFailed))

	assert.Equal(t, "Canceled reservation 3\n", Cancel(3, nil))
	assert.Equal(t, "Cannot cancel reservations, not logged in\n", Cancel(3, booking.ErrNotAuthenticated))
	assert.Equal(t, "Failed to cancel reservation 3\n", Cancel(3, booking.ErrReservationNotFound))
}
