// Package present renders booking engine results as the line-oriented
// text of the interactive command loop.  Every message ends with a
// newline; failures are chosen by the engine's error kind.
package present

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/model"
)

// Flight renders one flight row.
func Flight(f model.Flight) string {
	return fmt.Sprintf("ID: %d Day: %d Carrier: %s Number: %s Origin: %s Dest: %s Duration: %d Capacity: %d Price: %d\n",
		f.ID, f.DayOfMonth, f.Carrier, f.FlightNumber, f.OriginCity, f.DestCity, f.DurationMinutes, f.Capacity, f.Price)
}

func CreateUser(username string, err error) string {
	if err != nil {
		return "Failed to create user\n"
	}
	return fmt.Sprintf("Created user %s\n", username)
}

func Login(username string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Logged in as %s\n", username)
	case booking.KindOf(err) == booking.KindAlreadyLoggedIn:
		return "User already logged in\n"
	default:
		return "Login failed\n"
	}
}

func Logout(username string, err error) string {
	if err != nil {
		return "Cannot log out, not logged in\n"
	}
	return fmt.Sprintf("Logged out %s\n", username)
}

// Search renders itineraries in handle order, each followed by its legs.
func Search(its []model.Itinerary, err error) string {
	switch booking.KindOf(err) {
	case booking.KindUnknown:
		if err != nil {
			return "Failed to search\n"
		}
	case booking.KindNoMatch:
		return "No flights match your selection\n"
	default:
		return "Failed to search\n"
	}
	if len(its) == 0 {
		return "No flights match your selection\n"
	}

	var sb strings.Builder
	for _, it := range its {
		legs := it.Legs()
		fmt.Fprintf(&sb, "Itinerary %d: %d flight(s), %d minutes\n", it.Handle, len(legs), it.DurationMinutes)
		for _, f := range legs {
			sb.WriteString(Flight(f))
		}
	}
	return sb.String()
}

func Book(rid int64, err error) string {
	if err == nil {
		return fmt.Sprintf("Booked flight(s), reservation ID: %d\n", rid)
	}
	var be *booking.Error
	asEngineError(err, &be)
	switch booking.KindOf(err) {
	case booking.KindNotAuthenticated:
		return "Cannot book reservations, not logged in\n"
	case booking.KindUnknownItinerary:
		return fmt.Sprintf("No such itinerary %d\n", be.Handle)
	case booking.KindSameDayBooking:
		return "You cannot book two flights in the same day\n"
	default:
		return "Booking failed\n"
	}
}

func Pay(username string, rid int64, balance int, err error) string {
	if err == nil {
		return fmt.Sprintf("Paid reservation: %d remaining balance: %d\n", rid, balance)
	}
	var be *booking.Error
	asEngineError(err, &be)
	switch booking.KindOf(err) {
	case booking.KindNotAuthenticated:
		return "Cannot pay, not logged in\n"
	case booking.KindReservationNotFound:
		return fmt.Sprintf("Cannot find unpaid reservation %d under user: %s\n", rid, username)
	case booking.KindInsufficientBalance:
		return fmt.Sprintf("User has only %d in account but itinerary costs %d\n", be.Balance, be.Due)
	default:
		return fmt.Sprintf("Failed to pay for reservation %d\n", rid)
	}
}

func Reservations(list []model.ReservationDetail, err error) string {
	switch booking.KindOf(err) {
	case booking.KindUnknown:
		if err != nil {
			return "Failed to retrieve reservations\n"
		}
	case booking.KindNotAuthenticated:
		return "Cannot view reservations, not logged in\n"
	case booking.KindNoReservations:
		return "No reservations found\n"
	default:
		return "Failed to retrieve reservations\n"
	}
	if len(list) == 0 {
		return "No reservations found\n"
	}

	var sb strings.Builder
	for _, r := range list {
		fmt.Fprintf(&sb, "Reservation %d paid: %t:\n", r.ID, r.Paid)
		for _, f := range r.Flights {
			sb.WriteString(Flight(f))
		}
	}
	return sb.String()
}

func Cancel(rid int64, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Canceled reservation %d\n", rid)
	case booking.KindOf(err) == booking.KindNotAuthenticated:
		return "Cannot cancel reservations, not logged in\n"
	default:
		return fmt.Sprintf("Failed to cancel reservation %d\n", rid)
	}
}

// asEngineError fills *dst when err is a *booking.Error and leaves a zero
// value otherwise, so payload fields can be read unconditionally.
func asEngineError(err error, dst **booking.Error) {
	if !errors.As(err, dst) {
		*dst = &booking.Error{}
	}
}
