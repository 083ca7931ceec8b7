package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SequenceRepo mints identifiers from the id_sequences counter table.
// Counters only move forward, so an identifier is never handed out twice
// even after the rows that carried it are deleted.
type SequenceRepo struct{ DB *sql.DB }

func NewSequenceRepo(db *sql.DB) *SequenceRepo { return &SequenceRepo{DB: db} }

// NextTx reserves the next value of the named counter inside tx.  The
// counter row is written before it is read so that concurrent callers
// serialize on the row's write lock rather than deadlocking on a shared
// read lock.
func (r *SequenceRepo) NextTx(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE id_sequences SET next_value = next_value + 1 WHERE name=?", name)
	if err != nil {
		return 0, err
	}
	if err := expectOneRow(res, ErrNotFound); err != nil {
		return 0, fmt.Errorf("sequence %q: %w", name, err)
	}
	var next int64
	err = tx.QueryRowContext(ctx,
		"SELECT next_value FROM id_sequences WHERE name=?", name).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sequence %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}
