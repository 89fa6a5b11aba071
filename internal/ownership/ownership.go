// Package ownership picks the user who inherits a channel when its owner's
// account is deleted.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// Directory looks up users by username. UserByName returns an error matching
// types.ErrNotFound when no such user exists.
type Directory interface {
	UserByName(ctx context.Context, username string) (*types.User, error)
}

// Resolve returns the successor owner for ch once removed is deleted: the
// first moderator, in list order, that names an existing user other than
// removed. It returns nil, nil when no moderator qualifies, in which case
// the channel must be deleted together with its contents.
func Resolve(ctx context.Context, dir Directory, ch *types.Channel, removed *types.User) (*types.User, error) {
	for _, name := range ch.Moderators {
		if name == "" || name == removed.Username {
			continue
		}
		u, err := dir.UserByName(ctx, name)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolving moderator %s: %w", name, err)
		}
		if u.UserID == removed.UserID {
			continue
		}
		return u, nil
	}
	return nil, nil
}
