package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/utils"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and stores the session ID it names in the request context under
// "session_id".  It only proves the token was issued by this server;
// whether the session is still alive is decided by the registry.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(sessionKey, id)
			return next(c)
		}
	}
}

// OptionalSessionAuth behaves like SessionAuth when a valid bearer token is
// present and lets the request through anonymously otherwise.
func OptionalSessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				if id, err := utils.ParseSessionToken(secret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
					c.Set(sessionKey, id)
				}
			}
			return next(c)
		}
	}
}
