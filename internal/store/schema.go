// Package store provides SQLite-backed persistence for activity types,
// activities and plans.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/habits/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS activity_types (
	id      TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name    TEXT NOT NULL,
	color   TEXT NOT NULL DEFAULT '#000000',
	UNIQUE(user_id, name)
);

CREATE TABLE IF NOT EXISTS activities (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	activity_type_id TEXT NOT NULL REFERENCES activity_types(id) ON DELETE RESTRICT,
	name             TEXT NOT NULL,
	date             TEXT NOT NULL,
	start_time       TEXT NOT NULL,
	end_time         TEXT NOT NULL,
	notes            TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS plans (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	name        TEXT NOT NULL,
	date        TEXT NOT NULL,
	start_time  TEXT NOT NULL,
	end_time    TEXT NOT NULL,
	notes       TEXT NOT NULL DEFAULT '',
	is_finished INTEGER NOT NULL DEFAULT 0,
	recurrence  TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, date);
CREATE INDEX IF NOT EXISTS idx_plans_user_date ON plans(user_id, date);
`

// DB wraps a sql.DB with schedule-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// translate maps driver constraint failures onto apperr sentinels.
func translate(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %s", apperr.ErrAlreadyExists, se.Error())
	default:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, se.Error())
	}
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
