package middleware

// identity.go holds the context key shared by the session and rate-limit
// middleware and the handlers.

import "github.com/labstack/echo/v4"

const sessionKey = "session_id"

// SessionID returns the session ID stored by SessionAuth, or "" on
// unauthenticated routes.
func SessionID(c echo.Context) string {
	if v, ok := c.Get(sessionKey).(string); ok {
		return v
	}
	return ""
}
