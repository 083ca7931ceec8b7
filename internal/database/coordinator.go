package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// ErrDanglingTransaction is returned when a unit of work returned control
// while its transaction was neither committed nor rolled back.  It points
// at a bug in the coordinator or its callers and must not be retried.
var ErrDanglingTransaction = errors.New("transaction left open after unit of work")

// TxFunc is a unit of work executed inside a single transaction.  A
// non-nil error rolls the transaction back.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// Coordinator runs units of work in serializable transactions.  When the
// store reports a deadlock or serialization conflict the whole unit is
// re-executed from the start, up to a bounded number of attempts.
type Coordinator struct {
	db          *sql.DB
	isolation   sql.IsolationLevel
	maxAttempts uint
	retryBase   time.Duration
	log         *zap.Logger
}

// CoordinatorOption customises a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithMaxAttempts bounds how many times a conflicting unit is executed.
func WithMaxAttempts(n int) CoordinatorOption {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxAttempts = uint(n)
		}
	}
}

// WithRetryBase sets the first backoff interval between attempts.
func WithRetryBase(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.retryBase = d
		}
	}
}

// WithIsolation overrides the isolation level (serializable by default).
func WithIsolation(level sql.IsolationLevel) CoordinatorOption {
	return func(c *Coordinator) { c.isolation = level }
}

// WithLogger sets the logger used for retries and failures.
func WithLogger(l *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCoordinator returns a Coordinator bound to db.
func NewCoordinator(db *sql.DB, opts ...CoordinatorOption) *Coordinator {
	if db == nil {
		panic("nil database passed to NewCoordinator")
	}
	c := &Coordinator{
		db:          db,
		isolation:   sql.LevelSerializable,
		maxAttempts: 5,
		retryBase:   20 * time.Millisecond,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DB exposes the underlying handle for read paths that need no transaction.
func (c *Coordinator) DB() *sql.DB { return c.db }

// Run executes fn inside a read-write serializable transaction.
func (c *Coordinator) Run(ctx context.Context, op string, fn TxFunc) error {
	return c.run(ctx, op, false, fn)
}

// RunReadOnly executes fn inside a read-only transaction so that all of
// its reads observe one consistent snapshot.
func (c *Coordinator) RunReadOnly(ctx context.Context, op string, fn TxFunc) error {
	return c.run(ctx, op, true, fn)
}

func (c *Coordinator) run(ctx context.Context, op string, readOnly bool, fn TxFunc) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBase
	policy.MaxInterval = 50 * c.retryBase

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.once(ctx, readOnly, fn)
		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, ErrDanglingTransaction), !IsRetryable(err):
			return struct{}{}, backoff.Permanent(err)
		}
		c.log.Warn("transaction conflict",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(c.maxAttempts))

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	if err != nil && errors.Is(err, ErrDanglingTransaction) {
		c.log.Error("transaction integrity violated",
			zap.String("op", op),
			zap.Bool("fatal", true),
			zap.Error(err))
	}
	return err
}

// once runs fn in a single transaction attempt.  Commit happens only on
// the success path; every other path rolls back.  Before returning it
// checks that the transaction is closed.
func (c *Coordinator) once(ctx context.Context, readOnly bool, fn TxFunc) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: c.isolation, ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.log.Warn("rollback failed", zap.Error(rbErr))
		}
		return c.verifyClosed(ctx, tx, err)
	}
	if err := tx.Commit(); err != nil {
		return c.verifyClosed(ctx, tx, fmt.Errorf("commit: %w", err))
	}
	return c.verifyClosed(ctx, tx, nil)
}

// verifyClosed probes tx with a rollback.  database/sql answers ErrTxDone
// for a finished transaction; anything else means it was still open, so
// the probe itself closes it and the attempt is reported as dangling.
func (c *Coordinator) verifyClosed(ctx context.Context, tx *sql.Tx, cause error) error {
	err := tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return cause
	}
	// A cancelled context closes the transaction asynchronously.
	if ctx.Err() != nil {
		if cause != nil {
			return cause
		}
		return ctx.Err()
	}
	if cause != nil {
		return fmt.Errorf("%w: %v", ErrDanglingTransaction, cause)
	}
	return ErrDanglingTransaction
}
