// Package booking is the transactional booking engine: account creation,
// login, itinerary search, booking, payment, listing and cancellation of
// reservations.  Every write runs as one serializable unit of work through
// a database.Coordinator; business conditions come back as *Error values
// with a specific Kind, never as pre-formatted text.
package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/queue"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// EventPublisher receives reservation events after their transaction
// committed.  Implementations may fail; the engine only logs the error.
type EventPublisher interface {
	PublishReservationEvent(ctx context.Context, ev queue.ReservationEvent) error
}

// SearchCache memoizes directory lookups.  Get returns false on a miss or
// any cache failure.
type SearchCache interface {
	Get(ctx context.Context, q model.SearchQuery) ([]model.Itinerary, bool)
	Set(ctx context.Context, q model.SearchQuery, its []model.Itinerary)
}

// PasswordEncoder maps a plain password to its stored form.  It must be
// deterministic.
type PasswordEncoder interface {
	Encode(plain string) []byte
}

type rawPasswords struct{}

func (rawPasswords) Encode(plain string) []byte { return []byte(plain) }

// Engine executes booking operations on behalf of sessions.  It holds no
// per-session state and is safe for concurrent use.
type Engine struct {
	tx           *database.Coordinator
	users        *repository.UserRepo
	flights      *repository.FlightRepo
	reservations *repository.ReservationRepo
	sequences    *repository.SequenceRepo

	passwords        PasswordEncoder
	events           EventPublisher
	cache            SearchCache
	oneBookingPerDay bool
	publishTimeout   time.Duration
	log              *zap.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithPasswordEncoder sets how passwords are stored and compared.
func WithPasswordEncoder(p PasswordEncoder) Option {
	return func(e *Engine) {
		if p != nil {
			e.passwords = p
		}
	}
}

// WithEventPublisher enables reservation events.
func WithEventPublisher(p EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

// WithSearchCache puts a cache in front of the flight directory.
func WithSearchCache(c SearchCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithOneBookingPerDay rejects a booking when the principal already holds
// a reservation on the same day.
func WithOneBookingPerDay(enabled bool) Option {
	return func(e *Engine) { e.oneBookingPerDay = enabled }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an Engine running its units of work through coord.
func New(coord *database.Coordinator, opts ...Option) *Engine {
	db := coord.DB()
	e := &Engine{
		tx:             coord,
		users:          repository.NewUserRepo(db),
		flights:        repository.NewFlightRepo(db),
		reservations:   repository.NewReservationRepo(db),
		sequences:      repository.NewSequenceRepo(db),
		passwords:      rawPasswords{},
		publishTimeout: 2 * time.Second,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// guard rejects calls on broken sessions and, when auth is set, on
// sessions without a principal.
func (e *Engine) guard(op string, s *Session, auth bool) error {
	if s.broken {
		return fail(op, KindTransactionIntegrityViolation)
	}
	if auth && !s.LoggedIn() {
		return fail(op, KindNotAuthenticated)
	}
	return nil
}

// failure turns the error of a unit of work into an *Error.  Business
// errors pass through, a dangling transaction breaks the session and
// anything else is a store failure reported with the generic kind.
func (e *Engine) failure(op string, generic Kind, s *Session, err error) *Error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	if errors.Is(err, database.ErrDanglingTransaction) {
		s.broken = true
		e.log.Error("session disabled after integrity violation",
			zap.String("op", op), zap.String("user", s.username), zap.Error(err))
		return &Error{Kind: KindTransactionIntegrityViolation, Op: op, Err: err}
	}
	e.log.Error("store failure",
		zap.String("op", op), zap.String("user", s.username), zap.Error(err))
	return &Error{Kind: generic, Op: op, Err: err}
}

// publish emits ev once its transaction is durable.  It outlives a
// cancelled request context but not publishTimeout.
func (e *Engine) publish(ctx context.Context, ev queue.ReservationEvent) {
	if e.events == nil {
		return
	}
	ev.Stamp()
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.publishTimeout)
	defer cancel()
	if err := e.events.PublishReservationEvent(pctx, ev); err != nil {
		e.log.Warn("reservation event not published",
			zap.String("type", ev.Type), zap.Int64("reservation_id", ev.ReservationID), zap.Error(err))
	}
}

func eventFor(typ string, r model.Reservation) queue.ReservationEvent {
	ev := queue.ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		Username:      r.Username,
		LegOneID:      r.LegOneID,
		DayOfMonth:    r.DayOfMonth,
		Price:         r.Price,
	}
	if r.LegTwoID != model.NoLeg {
		ev.LegTwoID = r.LegTwoID
	}
	return ev
}
