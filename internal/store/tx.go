package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// txn wraps a transaction so queries can be written with ? placeholders
// regardless of engine.
type txn struct {
	tx *sql.Tx
	d  dialect
}

func (t *txn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.d.rebind(query), args...)
}

func (t *txn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.d.rebind(query), args...)
}

func (t *txn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.d.rebind(query), args...)
}

// withTx runs fn in a transaction, re-running it when it loses a lock or
// uniqueness race. Validation, lookup, and context errors are returned as
// they are. Other failures, including exhausted retries, become a
// *types.StorageError.
func (b *Backend) withTx(ctx context.Context, op string, fn func(*txn) error) error {
	return b.runWithRetry(ctx, op, false, fn)
}

// withSnapshotTx is withTx for read-only work whose statements must all see
// the same data.
func (b *Backend) withSnapshotTx(ctx context.Context, op string, fn func(*txn) error) error {
	return b.runWithRetry(ctx, op, true, fn)
}

func (b *Backend) runWithRetry(ctx context.Context, op string, snapshot bool, fn func(*txn) error) error {
	s, err := b.attachedSession()
	if err != nil {
		return err
	}

	attempts := s.retries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := runTx(ctx, s, snapshot, fn)
		if err == nil {
			return nil
		}
		if isDomainError(err) || ctx.Err() != nil {
			return err
		}
		if !isRetryable(err) {
			return &types.StorageError{Op: op, Attempts: attempt, Err: err}
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		wait := b.retry.delay(attempt - 1)
		b.logger.Warn().Err(err).Str("op", op).Int("attempt", attempt).Dur("wait", wait).Msg("transaction conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	b.logger.Error().Err(lastErr).Str("op", op).Int("attempts", attempts).Msg("transaction retries exhausted")
	return &types.StorageError{Op: op, Attempts: attempts, Err: lastErr}
}

func runTx(ctx context.Context, s session, snapshot bool, fn func(*txn) error) error {
	var opts *sql.TxOptions
	if snapshot && s.dialect.snapshotLevel != sql.LevelDefault {
		opts = &sql.TxOptions{Isolation: s.dialect.snapshotLevel, ReadOnly: true}
	}
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txn{tx: tx, d: s.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// isDomainError reports whether err is an outcome for the caller rather than
// a storage failure.
func isDomainError(err error) bool {
	var verr *types.ValidationError
	return errors.As(err, &verr) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrInvalidEntity) ||
		errors.Is(err, types.ErrForbidden)
}
