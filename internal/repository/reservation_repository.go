package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/flight-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  A
// reservation stores the flight IDs of its legs so that it can be shown
// long after the itinerary handle it was booked from has been discarded.
// Every method runs inside a caller-owned transaction.
type ReservationRepo struct {
	db      *sql.DB
	flights *FlightRepo
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db, flights: NewFlightRepo(db)}
}

const reservationColumns = `rid, iid, username, paid, price, fid1, fid2, day_of_month`

func scanReservation(s scanner, res *model.Reservation) error {
	var fid2 sql.NullInt64
	if err := s.Scan(&res.ID, &res.ItineraryID, &res.Username, &res.Paid, &res.Price,
		&res.LegOneID, &fid2, &res.DayOfMonth); err != nil {
		return err
	}
	res.LegTwoID = model.NoLeg
	if fid2.Valid {
		res.LegTwoID = int(fid2.Int64)
	}
	return nil
}

// CreateTx inserts a reservation whose ID has already been minted.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res model.Reservation) error {
	var fid2 sql.NullInt64
	if res.LegTwoID != model.NoLeg {
		fid2 = sql.NullInt64{Int64: int64(res.LegTwoID), Valid: true}
	}
	const q = `INSERT INTO reservations (` + reservationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, res.ID, res.ItineraryID, res.Username, res.Paid, res.Price,
		res.LegOneID, fid2, res.DayOfMonth)
	return err
}

// GetForUserTx returns reservation rid when it belongs to username.  A
// reservation of another user is reported as ErrNotFound, exactly like a
// missing one.
func (r *ReservationRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, rid int64, username string) (model.Reservation, error) {
	var res model.Reservation
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE rid = ? AND username = ?`
	err := scanReservation(tx.QueryRowContext(ctx, q, rid, username), &res)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// GetUnpaidForUserTx is GetForUserTx restricted to unpaid reservations.
func (r *ReservationRepo) GetUnpaidForUserTx(ctx context.Context, tx *sql.Tx, rid int64, username string) (model.Reservation, error) {
	var res model.Reservation
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE rid = ? AND username = ? AND paid = 0`
	err := scanReservation(tx.QueryRowContext(ctx, q, rid, username), &res)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotFound
	}
	return res, err
}

// MarkPaidTx flips the paid flag of an unpaid reservation.  An already
// paid or missing reservation yields ErrNotFound.
func (r *ReservationRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, rid int64) error {
	res, err := tx.ExecContext(ctx, `UPDATE reservations SET paid = 1 WHERE rid = ? AND paid = 0`, rid)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// DeleteTx removes reservation rid.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, rid int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE rid = ?`, rid)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// HasOnDayTx reports whether username already holds a reservation for an
// itinerary flying on day.
func (r *ReservationRepo) HasOnDayTx(ctx context.Context, tx *sql.Tx, username string, day int) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE username = ? AND day_of_month = ?`, username, day).Scan(&n)
	return n > 0, err
}

// ListByUserTx returns all reservations of username ordered by ID, each
// with the current rows of its leg flights.  Reservations and flights are
// read through the same transaction so the caller sees one snapshot.
// When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUserTx(ctx context.Context, tx *sql.Tx, username string) ([]model.ReservationDetail, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE username = ? ORDER BY rid ASC`
	rows, err := tx.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	details := make([]model.ReservationDetail, 0)
	for rows.Next() {
		var d model.ReservationDetail
		if err := scanReservation(rows, &d.Reservation); err != nil {
			rows.Close()
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}
	// Fetch the leg flights for all reservations in one query
	seen := make(map[int]struct{})
	ids := make([]int, 0, len(details)*2)
	for _, d := range details {
		for _, fid := range []int{d.LegOneID, d.LegTwoID} {
			if fid == model.NoLeg {
				continue
			}
			if _, ok := seen[fid]; !ok {
				seen[fid] = struct{}{}
				ids = append(ids, fid)
			}
		}
	}
	flights, err := r.flights.GetManyTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for i := range details {
		d := &details[i]
		d.Flights = make([]model.Flight, 0, 2)
		for _, fid := range []int{d.LegOneID, d.LegTwoID} {
			if fid == model.NoLeg {
				continue
			}
			f, ok := flights[fid]
			if !ok {
				return nil, ErrNotFound
			}
			d.Flights = append(d.Flights, f)
		}
	}
	return details, nil
}
