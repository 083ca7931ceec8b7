package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// FlightRepo reads the flights table and maintains its capacity column.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightColumns = `fid, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price, canceled`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFlight(s scanner, f *model.Flight) error {
	return s.Scan(&f.ID, &f.DayOfMonth, &f.Carrier, &f.FlightNumber,
		&f.OriginCity, &f.DestCity, &f.DurationMinutes, &f.Capacity, &f.Price, &f.Canceled)
}

// SearchDirect returns up to limit uncanceled flights on day whose origin
// and destination contain the given strings (case sensitive).  Results
// are ordered by duration, then flight ID.
func (r *FlightRepo) SearchDirect(ctx context.Context, origin, dest string, day, limit int) ([]model.Flight, error) {
	const q = `SELECT ` + flightColumns + `
               FROM flights
               WHERE INSTR(origin_city, ?) > 0 AND INSTR(dest_city, ?) > 0
                 AND day_of_month = ? AND canceled = 0
               ORDER BY actual_time ASC, fid ASC
               LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Flight, 0, limit)
	for rows.Next() {
		var f model.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Connection is a pair of same-day flights where the first lands in the
// city the second departs from.
type Connection struct {
	First  model.Flight
	Second model.Flight
}

// SearchConnecting returns up to limit two-leg connections from origin to
// dest on day.  Cities match exactly.  Results are ordered by total
// duration, then by the first and second flight IDs.
func (r *FlightRepo) SearchConnecting(ctx context.Context, origin, dest string, day, limit int) ([]Connection, error) {
	const q = `SELECT f1.fid, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city,
                      f1.actual_time, f1.capacity, f1.price, f1.canceled,
                      f2.fid, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city,
                      f2.actual_time, f2.capacity, f2.price, f2.canceled
               FROM flights f1
               JOIN flights f2 ON f2.origin_city = f1.dest_city AND f2.day_of_month = f1.day_of_month
               WHERE f1.origin_city = ? AND f2.dest_city = ? AND f1.day_of_month = ?
                 AND f1.canceled = 0 AND f2.canceled = 0
               ORDER BY (f1.actual_time + f2.actual_time) ASC, f1.fid ASC, f2.fid ASC
               LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Connection, 0, limit)
	for rows.Next() {
		var c Connection
		a, b := &c.First, &c.Second
		if err := rows.Scan(
			&a.ID, &a.DayOfMonth, &a.Carrier, &a.FlightNumber, &a.OriginCity, &a.DestCity,
			&a.DurationMinutes, &a.Capacity, &a.Price, &a.Canceled,
			&b.ID, &b.DayOfMonth, &b.Carrier, &b.FlightNumber, &b.OriginCity, &b.DestCity,
			&b.DurationMinutes, &b.Capacity, &b.Price, &b.Canceled,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTx loads one flight inside tx.
func (r *FlightRepo) GetTx(ctx context.Context, tx *sql.Tx, fid int) (model.Flight, error) {
	var f model.Flight
	err := scanFlight(tx.QueryRowContext(ctx, `SELECT `+flightColumns+` FROM flights WHERE fid = ?`, fid), &f)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	return f, err
}

// GetManyTx loads the flights with the given IDs, keyed by ID.  Unknown
// IDs are simply absent from the result.
func (r *FlightRepo) GetManyTx(ctx context.Context, tx *sql.Tx, ids []int) (map[int]model.Flight, error) {
	out := make(map[int]model.Flight, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT ` + flightColumns + ` FROM flights WHERE fid IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f model.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		out[f.ID] = f
	}
	return out, rows.Err()
}

// ReserveSeatTx takes one seat of flight fid.  The decrement is a single
// conditional update, so capacity can never drop below zero; when no seat
// is left (or the flight does not exist) ErrNoCapacity is returned.
func (r *FlightRepo) ReserveSeatTx(ctx context.Context, tx *sql.Tx, fid int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE flights SET capacity = capacity - 1 WHERE fid = ? AND capacity > 0`, fid)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNoCapacity)
}

// Insert adds a flight row.  Flights are reference data; this is used by
// loaders and tests.
func (r *FlightRepo) Insert(ctx context.Context, f model.Flight) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (`+flightColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.DayOfMonth, f.Carrier, f.FlightNumber, f.OriginCity, f.DestCity,
		f.DurationMinutes, f.Capacity, f.Price, f.Canceled)
	if err != nil {
		return err
	}
	return nil
}

// Capacity returns the remaining seats of flight fid outside any
// transaction.
func (r *FlightRepo) Capacity(ctx context.Context, fid int) (int, error) {
	var c int
	err := r.db.QueryRowContext(ctx, `SELECT capacity FROM flights WHERE fid = ?`, fid).Scan(&c)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return c, err
}
