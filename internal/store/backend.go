// Package store implements the Forum interface on top of database/sql, with
// SQLite as the default engine and PostgreSQL as an alternative.
//
// Every operation runs in a transaction. Transactions that lose a lock or
// uniqueness race are re-run a bounded number of times before the failure
// is reported as a *types.StorageError.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// Compile-time interface check.
var _ types.Forum = (*Backend)(nil)

// attachTimeout bounds connecting and creating the schema.
const attachTimeout = 30 * time.Second

// Backend implements types.Forum.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dialect  dialect
	db       *sql.DB

	logger zerolog.Logger
	now    func() time.Time
	retry  *backoff
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger for retries, cascades, and ownership changes.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// WithClock replaces the clock used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// NewBackend creates a Backend. The backend is not attached; call Attach
// with a Config to connect.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: zerolog.Nop(),
		now:    time.Now,
		retry:  newBackoff(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database named by config and creates any missing tables.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	d, err := dialectFor(config.Backend)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), attachTimeout)
	defer cancel()

	db, err := d.open(ctx, config)
	if err != nil {
		return fmt.Errorf("opening %s database: %w", config.Backend, err)
	}
	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	b.db = db
	b.dialect = d
	b.config = config
	b.attached = true

	b.logger.Debug().Str("backend", config.Backend).Str("data_dir", config.DataDir).Msg("forum attached")
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false

	b.logger.Debug().Str("backend", b.config.Backend).Msg("forum detached")
	return nil
}

// session is a snapshot of what an operation needs from an attached Backend.
type session struct {
	db      *sql.DB
	dialect dialect
	retries int
}

// attachedSession returns the open database, or ErrDetached.
func (b *Backend) attachedSession() (session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return session{}, types.ErrDetached
	}
	return session{db: b.db, dialect: b.dialect, retries: b.config.GetMaxRetries()}, nil
}

// timestamp returns the current time in UTC.
func (b *Backend) timestamp() time.Time {
	return b.now().UTC()
}

// generateUUID generates a new UUID v7 for user and channel ids.
func generateUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
