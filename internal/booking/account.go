package booking

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/repository"
)

// CreateUser registers a new account with the given starting balance.
// It does not log the session in.
func (e *Engine) CreateUser(ctx context.Context, s *Session, username, password string, balance int) error {
	const op = "create user"
	if err := e.guard(op, s, false); err != nil {
		return err
	}
	if balance < 0 {
		return fail(op, KindInvalidInitialBalance)
	}
	u := model.User{Username: username, Password: e.passwords.Encode(password), Balance: balance}
	err := e.tx.Run(ctx, op, func(ctx context.Context, tx *sql.Tx) error {
		taken, err := e.users.PasswordTakenTx(ctx, tx, u.Password)
		if err != nil {
			return err
		}
		if taken {
			return fail(op, KindDuplicatePassword)
		}
		exists, err := e.users.ExistsTx(ctx, tx, username)
		if err != nil {
			return err
		}
		if exists {
			return fail(op, KindUserExists)
		}
		if err := e.users.CreateTx(ctx, tx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fail(op, KindUserExists)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return e.failure(op, KindCreateUserFailed, s, err)
	}
	e.log.Info("user created", zap.String("user", username))
	return nil
}

// Login binds username to s when the password matches.
func (e *Engine) Login(ctx context.Context, s *Session, username, password string) error {
	const op = "login"
	if err := e.guard(op, s, false); err != nil {
		return err
	}
	if s.LoggedIn() {
		return fail(op, KindAlreadyLoggedIn)
	}
	u, err := e.users.GetByCredentials(ctx, username, e.passwords.Encode(password))
	if errors.Is(err, repository.ErrNotFound) {
		return fail(op, KindInvalidCredentials)
	}
	if err != nil {
		return e.failure(op, KindLoginFailed, s, err)
	}
	s.bind(u.Username)
	return nil
}

// Logout unbinds the principal and drops the itinerary cache.
func (e *Engine) Logout(s *Session) error {
	const op = "logout"
	if err := e.guard(op, s, true); err != nil {
		return err
	}
	s.reset()
	return nil
}
