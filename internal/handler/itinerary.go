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

const defaultMaxResults = 10

// SearchItineraries answers GET /v1/itineraries?origin=&dest=&day=&direct_only=&max=.
// With a session token the results replace that session's itinerary
// cache and can be booked by handle; anonymous searches are discarded.
func (h *BookingHandler) SearchItineraries(c echo.Context) error {
	var q model.SearchQuery
	if err := c.Bind(&q); err != nil {
		return badRequest(c, "invalid query")
	}
	if q.Origin == "" || q.Dest == "" {
		return badRequest(c, "origin/dest required")
	}
	if !c.QueryParams().Has("max") {
		q.MaxResults = defaultMaxResults
	}

	var its []model.Itinerary
	search := func(ctx context.Context, s *booking.Session) error {
		var err error
		its, err = h.Engine.Search(ctx, s, q)
		return err
	}

	var err error
	if id := middleware.SessionID(c); id != "" {
		err = h.withSession(c, id, search)
	} else {
		ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
		defer cancel()
		err = search(ctx, booking.NewSession())
	}
	if errors.Is(err, booking.ErrNoMatch) {
		return c.JSON(http.StatusOK, echo.Map{"itineraries": []model.Itinerary{}})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"itineraries": its})
}
