package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

const threadSelect = `SELECT t.channel_id, c.channel_name, t.thread_id, t.owner_id, t.owner_name,
	t.thread_name, t.description, t.pub_date
	FROM threads t JOIN channels c ON c.channel_id = t.channel_id`

func scanThread(row rowScanner) (*types.Thread, error) {
	var th types.Thread
	var pubDate string
	if err := row.Scan(&th.ChannelID, &th.ChannelName, &th.ThreadID, &th.OwnerID, &th.OwnerName,
		&th.ThreadName, &th.Description, &pubDate); err != nil {
		return nil, err
	}

	var err error
	if th.PubDate, err = parseTime(pubDate); err != nil {
		return nil, err
	}
	return &th, nil
}

func threadKey(channelName string, threadID int64) string {
	return fmt.Sprintf("%s/%d", channelName, threadID)
}

func threadByKey(ctx context.Context, t *txn, channelName string, threadID int64) (*types.Thread, error) {
	th, err := scanThread(t.queryRow(ctx,
		threadSelect+" WHERE c.channel_name = ? AND t.thread_id = ?",
		channelName, threadID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &types.NotFoundError{Kind: types.KindThread, Key: threadKey(channelName, threadID)}
	}
	if err != nil {
		return nil, fmt.Errorf("getting thread %s: %w", threadKey(channelName, threadID), err)
	}
	return th, nil
}

// CreateThread stores th in the channel named th.ChannelName and assigns
// its ThreadID, ChannelID, and OwnerID.
func (b *Backend) CreateThread(ctx context.Context, th *types.Thread) error {
	return b.withTx(ctx, "create thread", func(t *txn) error {
		verr := &types.ValidationError{}
		checkThreadFields(th, verr)
		if err := verr.Err(); err != nil {
			return err
		}

		ch, err := channelByName(ctx, t, th.ChannelName)
		if err != nil {
			return err
		}
		owner, err := userByName(ctx, t, th.OwnerName)
		if err != nil {
			return err
		}

		id, err := nextID(ctx, t, threadIDs, ch.ChannelID)
		if err != nil {
			return err
		}
		th.ThreadID = id
		th.ChannelID = ch.ChannelID
		th.OwnerID = owner.UserID
		th.PubDate = th.PubDate.UTC()

		if err := checkThreadKey(ctx, t, th, verr); err != nil {
			return err
		}
		if err := verr.Err(); err != nil {
			return err
		}

		_, err = t.exec(ctx,
			`INSERT INTO threads (channel_id, thread_id, owner_id, owner_name, thread_name,
			description, pub_date, next_comment_id) VALUES (?, ?, ?, ?, ?, ?, ?, 0)`,
			th.ChannelID, th.ThreadID, th.OwnerID, th.OwnerName, th.ThreadName,
			th.Description, formatTime(th.PubDate))
		if err != nil {
			return fmt.Errorf("inserting thread: %w", err)
		}
		return nil
	})
}

// GetThread returns one thread of the named channel.
func (b *Backend) GetThread(ctx context.Context, channelName string, threadID int64) (*types.Thread, error) {
	var th *types.Thread
	err := b.withTx(ctx, "get thread", func(t *txn) error {
		var err error
		th, err = threadByKey(ctx, t, channelName, threadID)
		return err
	})
	return th, err
}

// DeleteThread removes the thread and its comments.
func (b *Backend) DeleteThread(ctx context.Context, channelName string, threadID int64) error {
	var comments int64
	err := b.withTx(ctx, "delete thread", func(t *txn) error {
		th, err := threadByKey(ctx, t, channelName, threadID)
		if err != nil {
			return err
		}
		comments, err = deleteThreadTree(ctx, t, th.ChannelID, th.ThreadID)
		return err
	})
	if err != nil {
		return err
	}
	b.logger.Info().Str("channel", channelName).Int64("thread_id", threadID).Int64("comments", comments).Msg("thread deleted")
	return nil
}

// ListThreads returns the channel's threads ordered by ThreadID.
func (b *Backend) ListThreads(ctx context.Context, channelName string) ([]*types.Thread, error) {
	var threads []*types.Thread
	err := b.withTx(ctx, "list threads", func(t *txn) error {
		ch, err := channelByName(ctx, t, channelName)
		if err != nil {
			return err
		}

		rows, err := t.query(ctx, threadSelect+" WHERE t.channel_id = ? ORDER BY t.thread_id", ch.ChannelID)
		if err != nil {
			return fmt.Errorf("querying threads: %w", err)
		}
		defer rows.Close()

		threads = []*types.Thread{}
		for rows.Next() {
			th, err := scanThread(rows)
			if err != nil {
				return fmt.Errorf("scanning thread: %w", err)
			}
			threads = append(threads, th)
		}
		return rows.Err()
	})
	return threads, err
}
