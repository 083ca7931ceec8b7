package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/utils"
)

// ----- DTOs -----

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Balance  int    `json:"balance"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResp struct {
	Username string    `json:"username"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
}

// CreateUser registers an account.  It does not log anybody in.
func (h *BookingHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), reqTimeout)
	defer cancel()
	if err := h.Engine.CreateUser(ctx, booking.NewSession(), req.Username, req.Password, req.Balance); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"username": req.Username, "balance": req.Balance})
}

// Login opens a new session, logs it in and returns a bearer token naming
// it.  A failed login leaves no session behind.
func (h *BookingHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return badRequest(c, "username/password required")
	}

	id := h.Sessions.Create()
	err := h.withSession(c, id, func(ctx context.Context, s *booking.Session) error {
		return h.Engine.Login(ctx, s, req.Username, req.Password)
	})
	if err != nil {
		h.Sessions.Remove(id)
		return h.fail(c, err)
	}

	tok, err := utils.NewSessionToken(h.Secret, id, req.Username, h.TTL)
	if err != nil {
		h.Sessions.Remove(id)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusCreated, sessionResp{Username: req.Username, Token: tok.Token, Expires: tok.Exp})
}

// Logout ends the caller's session.  The session is forgotten even when
// the engine reports it was not logged in.
func (h *BookingHandler) Logout(c echo.Context) error {
	id := middleware.SessionID(c)
	err := h.withSession(c, id, func(_ context.Context, s *booking.Session) error {
		return h.Engine.Logout(s)
	})
	h.Sessions.Remove(id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
