package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateTx inserts a user.  A taken username yields ErrDuplicate.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, u model.User) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, password, balance) VALUES (?,?,?)",
		u.Username, u.Password, u.Balance)
	if err != nil {
		if database.IsDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// ExistsTx reports whether username is taken.
func (r *UserRepo) ExistsTx(ctx context.Context, tx *sql.Tx, username string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username=?", username).Scan(&n)
	return n > 0, err
}

// PasswordTakenTx reports whether any user already has this encoded password.
func (r *UserRepo) PasswordTakenTx(ctx context.Context, tx *sql.Tx, password []byte) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE password=?", password).Scan(&n)
	return n > 0, err
}

// GetByCredentials fetches the user matching both username and encoded
// password.  A mismatch on either yields ErrNotFound.
func (r *UserRepo) GetByCredentials(ctx context.Context, username string, password []byte) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT username,password,balance FROM users WHERE username=? AND password=? LIMIT 1",
		username, password).Scan(&u.Username, &u.Password, &u.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// BalanceTx returns the current balance of username.
func (r *UserRepo) BalanceTx(ctx context.Context, tx *sql.Tx, username string) (int, error) {
	var balance int
	err := tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE username=?", username).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return balance, err
}

// DebitTx subtracts amount from the balance.  The update is conditional on
// the balance covering the amount, so it can never go negative.
func (r *UserRepo) DebitTx(ctx context.Context, tx *sql.Tx, username string, amount int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = balance - ? WHERE username=? AND balance >= ?",
		amount, username, amount)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrInsufficientFunds)
}

// CreditTx adds amount to the balance.
func (r *UserRepo) CreditTx(ctx context.Context, tx *sql.Tx, username string, amount int) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = balance + ? WHERE username=?", amount, username)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// expectOneRow maps "no row affected" to notMatched.
func expectOneRow(res sql.Result, notMatched error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notMatched
	}
	return nil
}
