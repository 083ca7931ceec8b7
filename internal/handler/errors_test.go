package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/flight-reservation/internal/booking"
)

func TestStatusFor(t *testing.T) {
	cases := map[booking.Kind]int{
		booking.KindNotAuthenticated:              http.StatusUnauthorized,
		booking.KindInvalidCredentials:            http.StatusUnauthorized,
		booking.KindUserExists:                    http.StatusConflict,
		booking.KindFlightFull:                    http.StatusConflict,
		booking.KindInvalidInitialBalance:         http.StatusBadRequest,
		booking.KindUnknownItinerary:              http.StatusNotFound,
		booking.KindReservationNotFound:           http.StatusNotFound,
		booking.KindInsufficientBalance:           http.StatusPaymentRequired,
		booking.KindBookingFailed:                 http.StatusInternalServerError,
		booking.KindTransactionIntegrityViolation: http.StatusInternalServerError,
	}
	for k, want := range cases {
		assert.Equal(t, want, statusFor(k), k.String())
	}
}
