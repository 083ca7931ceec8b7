package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ReservationSequence is the id_sequences row that mints reservation IDs.
const ReservationSequence = "reservation"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password BLOB NOT NULL UNIQUE,
		balance  INTEGER NOT NULL CHECK (balance >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		fid          INTEGER PRIMARY KEY,
		day_of_month INTEGER NOT NULL,
		carrier_id   TEXT NOT NULL,
		flight_num   TEXT NOT NULL,
		origin_city  TEXT NOT NULL,
		dest_city    TEXT NOT NULL,
		actual_time  INTEGER NOT NULL,
		capacity     INTEGER NOT NULL CHECK (capacity >= 0),
		price        INTEGER NOT NULL,
		canceled     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_day_origin ON flights (day_of_month, origin_city)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		rid          INTEGER PRIMARY KEY,
		iid          INTEGER NOT NULL,
		username     TEXT NOT NULL REFERENCES users (username),
		paid         INTEGER NOT NULL DEFAULT 0,
		price        INTEGER NOT NULL,
		fid1         INTEGER NOT NULL REFERENCES flights (fid),
		fid2         INTEGER NULL REFERENCES flights (fid),
		day_of_month INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_username ON reservations (username)`,
	`CREATE TABLE IF NOT EXISTS id_sequences (
		name       TEXT PRIMARY KEY,
		next_value INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO id_sequences (name, next_value) VALUES ('reservation', 1)`,
}

// City columns use a binary collation so that INSTR matching stays case
// sensitive, as it is on SQLite.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username VARCHAR(64) NOT NULL PRIMARY KEY,
		password VARBINARY(128) NOT NULL,
		balance  INT NOT NULL,
		UNIQUE KEY uq_users_password (password),
		CHECK (balance >= 0)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS flights (
		fid          INT NOT NULL PRIMARY KEY,
		day_of_month INT NOT NULL,
		carrier_id   VARCHAR(8) NOT NULL,
		flight_num   VARCHAR(16) NOT NULL,
		origin_city  VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		dest_city    VARCHAR(64) COLLATE utf8mb4_bin NOT NULL,
		actual_time  INT NOT NULL,
		capacity     INT NOT NULL,
		price        INT NOT NULL,
		canceled     TINYINT NOT NULL DEFAULT 0,
		KEY idx_flights_day_origin (day_of_month, origin_city),
		CHECK (capacity >= 0)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS reservations (
		rid          BIGINT NOT NULL PRIMARY KEY,
		iid          INT NOT NULL,
		username     VARCHAR(64) NOT NULL,
		paid         TINYINT NOT NULL DEFAULT 0,
		price        INT NOT NULL,
		fid1         INT NOT NULL,
		fid2         INT NULL,
		day_of_month INT NOT NULL,
		KEY idx_reservations_username (username),
		CONSTRAINT fk_reservations_user FOREIGN KEY (username) REFERENCES users (username),
		CONSTRAINT fk_reservations_fid1 FOREIGN KEY (fid1) REFERENCES flights (fid),
		CONSTRAINT fk_reservations_fid2 FOREIGN KEY (fid2) REFERENCES flights (fid)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS id_sequences (
		name       VARCHAR(32) NOT NULL PRIMARY KEY,
		next_value BIGINT NOT NULL
	) ENGINE=InnoDB`,
	`INSERT IGNORE INTO id_sequences (name, next_value) VALUES ('reservation', 1)`,
}

// Bootstrap creates the booking tables when they do not exist yet and
// seeds the reservation ID sequence.  It is idempotent.
func Bootstrap(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var stmts []string
	switch dialect {
	case SQLite:
		stmts = sqliteSchema
	case MySQL:
		stmts = mysqlSchema
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap statement %d: %w", i, err)
		}
	}
	return nil
}

// ClearTables removes every user and reservation and rewinds the
// reservation sequence.  Flights are left untouched.
func ClearTables(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for _, stmt := range []string{
		`DELETE FROM reservations`,
		`DELETE FROM users`,
		`UPDATE id_sequences SET next_value = 1 WHERE name = 'reservation'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear tables: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
