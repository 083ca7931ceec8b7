package booking

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/queue"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// Book reserves one seat on every leg of the itinerary behind handle and
// records an unpaid reservation for the principal.  Seats are taken with
// conditional decrements, so a flight with no capacity left fails the
// whole unit with KindFlightFull and nothing is written.
func (e *Engine) Book(ctx context.Context, s *Session, handle int) (int64, error) {
	const op = "book"
	if err := e.guard(op, s, true); err != nil {
		return 0, err
	}
	it, ok := s.Itinerary(handle)
	if !ok {
		return 0, &Error{Kind: KindUnknownItinerary, Op: op, Handle: handle}
	}

	var booked model.Reservation
	err := e.tx.Run(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		if e.oneBookingPerDay {
			taken, err := e.reservations.HasOnDayTx(ctx, tx, s.username, it.DayOfMonth)
			if err != nil {
				return err
			}
			if taken {
				return fail(op, KindSameDayBooking)
			}
		}
		for _, leg := range it.Legs() {
			if err := e.flights.ReserveSeatTx(ctx, tx, leg.ID); err != nil {
				if errors.Is(err, repository.ErrNoCapacity) {
					return fail(op, KindFlightFull)
				}
				return err
			}
		}
		rid, err := e.sequences.NextTx(ctx, tx, database.ReservationSequence)
		if err != nil {
			return err
		}
		res := model.Reservation{
			ID:          rid,
			ItineraryID: it.Handle,
			Username:    s.username,
			Price:       it.TotalPrice,
			LegOneID:    it.LegOne.ID,
			LegTwoID:    it.LegTwoID(),
			DayOfMonth:  it.DayOfMonth,
		}
		if err := e.reservations.CreateTx(ctx, tx, res); err != nil {
			return err
		}
		booked = res
		return nil
	})
	if err != nil {
		return 0, e.failure(op, KindBookingFailed, s, err)
	}
	e.log.Info("reservation booked",
		zap.Int64("reservation_id", booked.ID), zap.String("user", booked.Username), zap.Int("price", booked.Price))
	e.publish(ctx, eventFor(queue.EventBooked, booked))
	return booked.ID, nil
}

// Pay debits the price of an unpaid reservation of the principal and
// marks it paid, returning the remaining balance.  A reservation that is
// missing, owned by someone else or already paid is KindReservationNotFound.
func (e *Engine) Pay(ctx context.Context, s *Session, rid int64) (int, error) {
	const op = "pay"
	if err := e.guard(op, s, true); err != nil {
		return 0, err
	}

	var (
		paid      model.Reservation
		remaining int
	)
	err := e.tx.Run(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		res, err := e.reservations.GetUnpaidForUserTx(ctx, tx, rid, s.username)
		if errors.Is(err, repository.ErrNotFound) {
			return &Error{Kind: KindReservationNotFound, Op: op, ID: rid}
		}
		if err != nil {
			return err
		}
		balance, err := e.users.BalanceTx(ctx, tx, s.username)
		if err != nil {
			return err
		}
		if balance < res.Price {
			return &Error{Kind: KindInsufficientBalance, Op: op, ID: rid, Balance: balance, Due: res.Price}
		}
		if err := e.users.DebitTx(ctx, tx, s.username, res.Price); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return &Error{Kind: KindInsufficientBalance, Op: op, ID: rid, Balance: balance, Due: res.Price}
			}
			return err
		}
		if err := e.reservations.MarkPaidTx(ctx, tx, rid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &Error{Kind: KindReservationNotFound, Op: op, ID: rid}
			}
			return err
		}
		res.Paid = true
		paid, remaining = res, balance-res.Price
		return nil
	})
	if err != nil {
		fe := e.failure(op, KindPaymentFailed, s, err)
		fe.ID = rid
		return 0, fe
	}
	ev := eventFor(queue.EventPaid, paid)
	ev.Balance = remaining
	e.publish(ctx, ev)
	return remaining, nil
}

// Reservations lists the principal's reservations in ID order together
// with their leg flights, read in one transaction.  An empty list is
// reported as KindNoReservations.
func (e *Engine) Reservations(ctx context.Context, s *Session) ([]model.ReservationDetail, error) {
	const op = "reservations"
	if err := e.guard(op, s, true); err != nil {
		return nil, err
	}
	var out []model.ReservationDetail
	err := e.tx.RunReadOnly(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		list, err := e.reservations.ListByUserTx(ctx, tx, s.username)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, e.failure(op, KindListFailed, s, err)
	}
	if len(out) == 0 {
		return out, fail(op, KindNoReservations)
	}
	return out, nil
}

// Cancel deletes a reservation of the principal, refunding its price when
// it was paid.  Flight capacity is not restored.
func (e *Engine) Cancel(ctx context.Context, s *Session, rid int64) error {
	const op = "cancel"
	if err := e.guard(op, s, true); err != nil {
		return err
	}

	var canceled model.Reservation
	err := e.tx.Run(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		res, err := e.reservations.GetForUserTx(ctx, tx, rid, s.username)
		if errors.Is(err, repository.ErrNotFound) {
			return &Error{Kind: KindReservationNotFound, Op: op, ID: rid}
		}
		if err != nil {
			return err
		}
		if res.Paid {
			if err := e.users.CreditTx(ctx, tx, res.Username, res.Price); err != nil {
				return err
			}
		}
		if err := e.reservations.DeleteTx(ctx, tx, rid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &Error{Kind: KindReservationNotFound, Op: op, ID: rid}
			}
			return err
		}
		canceled = res
		return nil
	})
	if err != nil {
		fe := e.failure(op, KindCancelFailed, s, err)
		fe.ID = rid
		return fe
	}
	ev := eventFor(queue.EventCanceled, canceled)
	if canceled.Paid {
		ev.Refund = canceled.Price
	}
	e.publish(ctx, ev)
	return nil
}
