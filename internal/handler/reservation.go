package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/model"
)

type bookReq struct {
	Itinerary *int `json:"itinerary"`
}

// Book reserves the itinerary with the given handle from the caller's
// last search.
func (h *BookingHandler) Book(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil || req.Itinerary == nil {
		return badRequest(c, "itinerary required")
	}

	var rid int64
	err := h.withSession(c, middleware.SessionID(c), func(ctx context.Context, s *booking.Session) error {
		var err error
		rid, err = h.Engine.Book(ctx, s, *req.Itinerary)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation_id": rid})
}

// ListReservations returns the caller's reservations with their flights.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	var out []model.ReservationDetail
	err := h.withSession(c, middleware.SessionID(c), func(ctx context.Context, s *booking.Session) error {
		var err error
		out, err = h.Engine.Reservations(ctx, s)
		return err
	})
	if errors.Is(err, booking.ErrNoReservations) {
		return c.JSON(http.StatusOK, echo.Map{"reservations": []model.ReservationDetail{}})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Pay settles an unpaid reservation of the caller.
func (h *BookingHandler) Pay(c echo.Context) error {
	rid, ok := parseReservationID(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}

	var balance int
	err := h.withSession(c, middleware.SessionID(c), func(ctx context.Context, s *booking.Session) error {
		var err error
		balance, err = h.Engine.Pay(ctx, s, rid)
		return err
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": rid, "balance": balance})
}

// Cancel removes a reservation of the caller, refunding it when paid.
func (h *BookingHandler) Cancel(c echo.Context) error {
	rid, ok := parseReservationID(c)
	if !ok {
		return badRequest(c, "invalid reservation id")
	}

	err := h.withSession(c, middleware.SessionID(c), func(ctx context.Context, s *booking.Session) error {
		return h.Engine.Cancel(ctx, s, rid)
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
