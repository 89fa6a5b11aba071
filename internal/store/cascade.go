package store

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

// removal counts the descendants a cascade deleted.
type removal struct {
	threads  int64
	comments int64
}

// lockRows takes row locks on whatever query selects. Concurrent creates
// hold the same locks while allocating, so once lockRows returns no child
// insert is still in flight under those rows.
func lockRows(ctx context.Context, t *txn, query string, args ...any) error {
	rows, err := t.query(ctx, t.d.forUpdate(query), args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

// deleteChannelTree deletes a channel's comments, then its threads, then the
// channel row itself. Rows in other channels are not touched.
func deleteChannelTree(ctx context.Context, t *txn, channelID string) (removal, error) {
	var n removal

	if err := lockRows(ctx, t, "SELECT channel_id FROM channels WHERE channel_id = ?", channelID); err != nil {
		return n, fmt.Errorf("locking channel: %w", err)
	}
	if err := lockRows(ctx, t, "SELECT thread_id FROM threads WHERE channel_id = ?", channelID); err != nil {
		return n, fmt.Errorf("locking channel threads: %w", err)
	}

	res, err := t.exec(ctx, "DELETE FROM comments WHERE channel_id = ?", channelID)
	if err != nil {
		return n, fmt.Errorf("deleting channel comments: %w", err)
	}
	n.comments, _ = res.RowsAffected()

	res, err = t.exec(ctx, "DELETE FROM threads WHERE channel_id = ?", channelID)
	if err != nil {
		return n, fmt.Errorf("deleting channel threads: %w", err)
	}
	n.threads, _ = res.RowsAffected()

	if _, err := t.exec(ctx, "DELETE FROM channels WHERE channel_id = ?", channelID); err != nil {
		return n, fmt.Errorf("deleting channel: %w", err)
	}
	return n, nil
}

// deleteThreadTree deletes one thread and its comments.
func deleteThreadTree(ctx context.Context, t *txn, channelID string, threadID int64) (int64, error) {
	if err := lockRows(ctx, t,
		"SELECT thread_id FROM threads WHERE channel_id = ? AND thread_id = ?",
		channelID, threadID); err != nil {
		return 0, fmt.Errorf("locking thread: %w", err)
	}

	res, err := t.exec(ctx, "DELETE FROM comments WHERE channel_id = ? AND thread_id = ?", channelID, threadID)
	if err != nil {
		return 0, fmt.Errorf("deleting thread comments: %w", err)
	}
	comments, _ := res.RowsAffected()

	if _, err := t.exec(ctx, "DELETE FROM threads WHERE channel_id = ? AND thread_id = ?", channelID, threadID); err != nil {
		return 0, fmt.Errorf("deleting thread: %w", err)
	}
	return comments, nil
}

// reassignChannel makes owner the channel's owner.
func reassignChannel(ctx context.Context, t *txn, channelID string, owner *types.User) error {
	if _, err := t.exec(ctx,
		"UPDATE channels SET owner_id = ?, owner_name = ? WHERE channel_id = ?",
		owner.UserID, owner.Username, channelID); err != nil {
		return fmt.Errorf("reassigning channel owner: %w", err)
	}
	return nil
}
