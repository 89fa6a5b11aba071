package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// errActorRequired is returned when a removal command is run without --as.
var errActorRequired = errors.New("--as is required")

// authorize looks up the acting user and applies the removal rule.
func authorize(ctx context.Context, f types.Forum, actorName string, allowed func(*types.User) bool) error {
	if actorName == "" {
		return errActorRequired
	}
	actor, err := f.GetUser(ctx, actorName)
	if err != nil {
		return err
	}
	if !allowed(actor) {
		return fmt.Errorf("%s: %w", actor.Username, types.ErrForbidden)
	}
	return nil
}
