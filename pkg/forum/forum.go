// Package forum is the public entry point for the agora storage backends.
// It hands out types.Forum values while keeping the SQL implementation
// internal.
//
// Example:
//
//	f, err := forum.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".agora",
//	}, zerolog.Nop())
//	if err != nil {
//	    return err
//	}
//	defer f.Detach()
package forum

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/agora/internal/store"
	"github.com/mesh-intelligence/agora/pkg/types"
)

// New returns an unattached Forum that logs to logger. Call Attach before
// use.
func New(logger zerolog.Logger) types.Forum {
	return store.NewBackend(store.WithLogger(logger))
}

// Open returns a Forum attached to the backend described by cfg.
func Open(cfg types.Config, logger zerolog.Logger) (types.Forum, error) {
	f := New(logger)
	if err := f.Attach(cfg); err != nil {
		return nil, err
	}
	return f, nil
}
