package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// idScope describes one sequence of local ids: the parent row that carries
// the counter and the child rows the ids belong to.
type idScope struct {
	kind    string // parent kind, for NotFoundError
	counter string // SELECT the counter from the parent row
	max     string // SELECT MAX(id) among existing children
	bump    string // UPDATE the counter; first arg is the new value
}

var threadIDs = idScope{
	kind:    types.KindChannel,
	counter: "SELECT next_thread_id FROM channels WHERE channel_id = ?",
	max:     "SELECT MAX(thread_id) FROM threads WHERE channel_id = ?",
	bump:    "UPDATE channels SET next_thread_id = ? WHERE channel_id = ?",
}

var commentIDs = idScope{
	kind:    types.KindThread,
	counter: "SELECT next_comment_id FROM threads WHERE channel_id = ? AND thread_id = ?",
	max:     "SELECT MAX(comment_id) FROM comments WHERE channel_id = ? AND thread_id = ?",
	bump:    "UPDATE threads SET next_comment_id = ? WHERE channel_id = ? AND thread_id = ?",
}

// nextID allocates the next id in the scope identified by key. The id is one
// past the larger of the highest id in use and the highest id ever handed
// out, so ids start at 0 and are never reused after a delete.
//
// The parent row stays locked until the caller's transaction ends, which
// serializes allocation within one scope while leaving other scopes free.
func nextID(ctx context.Context, t *txn, scope idScope, key ...any) (int64, error) {
	var next int64
	err := t.queryRow(ctx, t.d.forUpdate(scope.counter), key...).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &types.NotFoundError{Kind: scope.kind, Key: fmt.Sprint(key...)}
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s id counter: %w", scope.kind, err)
	}

	var highest sql.NullInt64
	if err := t.queryRow(ctx, scope.max, key...).Scan(&highest); err != nil {
		return 0, fmt.Errorf("scanning %s ids: %w", scope.kind, err)
	}
	if highest.Valid && highest.Int64+1 > next {
		next = highest.Int64 + 1
	}

	args := append([]any{next + 1}, key...)
	if _, err := t.exec(ctx, scope.bump, args...); err != nil {
		return 0, fmt.Errorf("advancing %s id counter: %w", scope.kind, err)
	}
	return next, nil
}
