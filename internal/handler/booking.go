package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/session"
)

// reqTimeout bounds the store work of one request, retries included.
const reqTimeout = 10 * time.Second

// BookingHandler exposes the booking engine over HTTP.  Each bearer token
// names one server-side booking.Session held in Sessions.
type BookingHandler struct {
	Engine   *booking.Engine
	Sessions *session.Registry
	Secret   string        // signs session tokens
	TTL      time.Duration // lifetime of issued tokens
}

func NewBookingHandler(engine *booking.Engine, sessions *session.Registry, secret string, ttl time.Duration) *BookingHandler {
	if engine == nil || sessions == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Sessions: sessions, Secret: secret, TTL: ttl}
}

// withSession runs fn on the session named by the request's token.
func (h *BookingHandler) withSession(c echo.Context, id string, fn func(ctx context.Context, s *booking.Session) error) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	return h.Sessions.With(id, func(s *booking.Session) error { return fn(ctx, s) })
}

func parseReservationID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
