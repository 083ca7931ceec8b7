package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/session"
)

// statusFor maps an engine failure kind to the HTTP status returned to the
// client.
func statusFor(k booking.Kind) int {
	switch k {
	case booking.KindNotAuthenticated, booking.KindInvalidCredentials:
		return http.StatusUnauthorized
	case booking.KindAlreadyLoggedIn, booking.KindUserExists, booking.KindDuplicatePassword,
		booking.KindFlightFull, booking.KindSameDayBooking:
		return http.StatusConflict
	case booking.KindInvalidInitialBalance:
		return http.StatusBadRequest
	case booking.KindNoMatch, booking.KindUnknownItinerary, booking.KindReservationNotFound,
		booking.KindNoReservations:
		return http.StatusNotFound
	case booking.KindInsufficientBalance:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the JSON error body for err.  A session that hit an
// integrity violation is dropped from the registry.
func (h *BookingHandler) fail(c echo.Context, err error) error {
	if errors.Is(err, session.ErrUnknownSession) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown or expired session"})
	}
	var be *booking.Error
	if !errors.As(err, &be) {
		c.Logger().Errorf("unclassified failure: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if be.Kind.Fatal() {
		if id := middleware.SessionID(c); id != "" {
			h.Sessions.Remove(id)
		}
	}

	body := echo.Map{"error": be.Kind.String()}
	switch be.Kind {
	case booking.KindUnknownItinerary:
		body["itinerary"] = be.Handle
	case booking.KindReservationNotFound, booking.KindPaymentFailed, booking.KindCancelFailed:
		body["reservation_id"] = be.ID
	case booking.KindInsufficientBalance:
		body["balance"] = be.Balance
		body["due"] = be.Due
	}
	return c.JSON(statusFor(be.Kind), body)
}
