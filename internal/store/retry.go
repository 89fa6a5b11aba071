package store

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL SQLSTATE codes that mean another transaction won a race.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
)

// isRetryable reports whether err came from losing a lock, uniqueness, or
// parent/child race that a fresh transaction could win. On the re-run a
// unique clash surfaces as a ValidationError and a vanished parent as a
// NotFoundError.
func isRetryable(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		switch code & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation, pgForeignKeyViolation:
			return true
		}
	}
	return false
}

// backoff computes exponential delays with jitter between transaction
// attempts.
type backoff struct {
	initial      time.Duration
	max          time.Duration
	multiplier   float64
	jitterFactor float64
}

func newBackoff() *backoff {
	return &backoff{
		initial:      10 * time.Millisecond,
		max:          500 * time.Millisecond,
		multiplier:   2.0,
		jitterFactor: 0.3,
	}
}

// delay returns the wait before retry number attempt (0-based).
func (b *backoff) delay(attempt int) time.Duration {
	d := float64(b.initial) * math.Pow(b.multiplier, float64(attempt))
	if d > float64(b.max) {
		d = float64(b.max)
	}
	if b.jitterFactor > 0 {
		jitter := d * b.jitterFactor
		d += (rand.Float64()*2 - 1) * jitter
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
