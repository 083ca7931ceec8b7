package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require a session.
// Currently it exposes only a health check backed by a store ping.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterBooking registers the account, search and reservation routes.
// Account creation and login are open; search accepts an optional session
// token; everything else requires one.  limiter, when non-nil, is applied
// to every booking route.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	var common []echo.MiddlewareFunc
	if limiter != nil {
		common = append(common, limiter)
	}

	open := e.Group("/v1", common...)
	open.POST("/users", h.CreateUser)
	open.POST("/session", h.Login)

	// Search binds results to the caller's session when a token is sent.
	optional := e.Group("/v1", append([]echo.MiddlewareFunc{middleware.OptionalSessionAuth(jwtSecret)}, common...)...)
	optional.GET("/itineraries", h.SearchItineraries)

	auth := e.Group("/v1", append([]echo.MiddlewareFunc{middleware.SessionAuth(jwtSecret)}, common...)...)
	auth.DELETE("/session", h.Logout)
	auth.POST("/reservations", h.Book)
	auth.GET("/reservations", h.ListReservations)
	auth.POST("/reservations/:id/payment", h.Pay)
	auth.DELETE("/reservations/:id", h.Cancel)
}
