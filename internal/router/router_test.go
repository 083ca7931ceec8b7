package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
	"github.com/iliyamo/flight-reservation/internal/session"
)

const secret = "test-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "flights.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	require.NoError(t, database.Bootstrap(ctx, db, database.SQLite))

	flights := repository.NewFlightRepo(db)
	require.NoError(t, flights.Insert(ctx, model.Flight{
		ID: 1, DayOfMonth: 3, Carrier: "AS", FlightNumber: "24", OriginCity: "Seattle WA",
		DestCity: "Boston MA", DurationMinutes: 300, Capacity: 5, Price: 400,
	}))

	engine := booking.New(database.NewCoordinator(db))
	h := handler.NewBookingHandler(engine, session.NewRegistry(time.Hour), secret, time.Hour)

	e := echo.New()
	RegisterRoutes(e, db)
	RegisterBooking(e, h, secret, nil)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func login(t *testing.T, e *echo.Echo, user, pass string) string {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/v1/session", "", `{"username":"`+user+`","password":"`+pass+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

const searchPath = "/v1/itineraries?origin=Seattle%20WA&dest=Boston%20MA&day=3&max=5"

func TestHealthz(t *testing.T) {
	e := newServer(t)
	rec := do(t, e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestBookingFlowOverHTTP(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodPost, "/v1/users", "", `{"username":"alice","password":"pw","balance":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, e, http.MethodPost, "/v1/users", "", `{"username":"alice","password":"other","balance":5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, e, http.MethodPost, "/v1/session", "", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tok := login(t, e, "alice", "pw")

	rec = do(t, e, http.MethodGet, searchPath, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found struct {
		Itineraries []model.Itinerary `json:"itineraries"`
	}
	decode(t, rec, &found)
	require.Len(t, found.Itineraries, 1)
	assert.Equal(t, 0, found.Itineraries[0].Handle)
	assert.Equal(t, 400, found.Itineraries[0].TotalPrice)

	rec = do(t, e, http.MethodPost, "/v1/reservations", tok, `{"itinerary":9}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"itinerary":9`)

	rec = do(t, e, http.MethodPost, "/v1/reservations", tok, `{"itinerary":0}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var booked struct {
		ID int64 `json:"reservation_id"`
	}
	decode(t, rec, &booked)
	assert.Equal(t, int64(1), booked.ID)

	rec = do(t, e, http.MethodGet, "/v1/reservations", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Reservations []model.ReservationDetail `json:"reservations"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Reservations, 1)
	assert.False(t, list.Reservations[0].Paid)
	require.Len(t, list.Reservations[0].Flights, 1)
	assert.Equal(t, 1, list.Reservations[0].Flights[0].ID)

	rec = do(t, e, http.MethodPost, "/v1/reservations/1/payment", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var paid struct {
		Balance int `json:"balance"`
	}
	decode(t, rec, &paid)
	assert.Equal(t, 600, paid.Balance)

	rec = do(t, e, http.MethodPost, "/v1/reservations/1/payment", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodDelete, "/v1/reservations/1", tok, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e, http.MethodGet, "/v1/reservations", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Empty(t, list.Reservations)

	rec = do(t, e, http.MethodDelete, "/v1/session", tok, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, e, http.MethodGet, "/v1/reservations", tok, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newServer(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/v1/reservations"},
		{http.MethodGet, "/v1/reservations"},
		{http.MethodPost, "/v1/reservations/1/payment"},
		{http.MethodDelete, "/v1/reservations/1"},
		{http.MethodDelete, "/v1/session"},
	} {
		rec := do(t, e, r.method, r.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.method+" "+r.path)
	}
}

func TestAnonymousSearch(t *testing.T) {
	e := newServer(t)

	rec := do(t, e, http.MethodGet, searchPath, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fid":1`)

	rec = do(t, e, http.MethodGet, "/v1/itineraries?origin=Nowhere&dest=Boston%20MA&day=3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"itineraries":[]}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/v1/itineraries?dest=Boston%20MA", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayWithoutFundsReportsBalance(t *testing.T) {
	e := newServer(t)
	rec := do(t, e, http.MethodPost, "/v1/users", "", `{"username":"bob","password":"pw","balance":50}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	tok := login(t, e, "bob", "pw")

	require.Equal(t, http.StatusOK, do(t, e, http.MethodGet, searchPath, tok, "").Code)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/v1/reservations", tok, `{"itinerary":0}`).Code)

	rec = do(t, e, http.MethodPost, "/v1/reservations/1/payment", tok, "")
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	var body struct {
		Balance int `json:"balance"`
		Due     int `json:"due"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 50, body.Balance)
	assert.Equal(t, 400, body.Due)

	rec = do(t, e, http.MethodPost, "/v1/reservations/abc/payment", tok, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
