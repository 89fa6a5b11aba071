package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

const commentSelect = `SELECT m.channel_id, c.channel_name, m.thread_id, m.comment_id,
	m.owner_id, m.owner_name, m.text, m.pub_date
	FROM comments m JOIN channels c ON c.channel_id = m.channel_id`

func scanComment(row rowScanner) (*types.Comment, error) {
	var cm types.Comment
	var pubDate string
	if err := row.Scan(&cm.ChannelID, &cm.ChannelName, &cm.ThreadID, &cm.CommentID,
		&cm.OwnerID, &cm.OwnerName, &cm.Text, &pubDate); err != nil {
		return nil, err
	}

	var err error
	if cm.PubDate, err = parseTime(pubDate); err != nil {
		return nil, err
	}
	return &cm, nil
}

func commentKey(channelName string, threadID, commentID int64) string {
	return fmt.Sprintf("%s/%d/%d", channelName, threadID, commentID)
}

// CreateComment stores c in the thread addressed by c.ChannelName and
// c.ThreadID and assigns its CommentID, ChannelID, and OwnerID.
func (b *Backend) CreateComment(ctx context.Context, c *types.Comment) error {
	return b.withTx(ctx, "create comment", func(t *txn) error {
		verr := &types.ValidationError{}
		checkCommentFields(c, verr)
		if err := verr.Err(); err != nil {
			return err
		}

		th, err := threadByKey(ctx, t, c.ChannelName, c.ThreadID)
		if err != nil {
			return err
		}
		owner, err := userByName(ctx, t, c.OwnerName)
		if err != nil {
			return err
		}

		id, err := nextID(ctx, t, commentIDs, th.ChannelID, th.ThreadID)
		if err != nil {
			return err
		}
		c.CommentID = id
		c.ChannelID = th.ChannelID
		c.OwnerID = owner.UserID
		c.PubDate = c.PubDate.UTC()

		if err := checkCommentKey(ctx, t, c, verr); err != nil {
			return err
		}
		if err := verr.Err(); err != nil {
			return err
		}

		_, err = t.exec(ctx,
			`INSERT INTO comments (channel_id, thread_id, comment_id, owner_id, owner_name, text, pub_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ChannelID, c.ThreadID, c.CommentID, c.OwnerID, c.OwnerName, c.Text, formatTime(c.PubDate))
		if err != nil {
			return fmt.Errorf("inserting comment: %w", err)
		}
		return nil
	})
}

// GetComment returns one comment.
func (b *Backend) GetComment(ctx context.Context, channelName string, threadID, commentID int64) (*types.Comment, error) {
	var cm *types.Comment
	err := b.withTx(ctx, "get comment", func(t *txn) error {
		var err error
		cm, err = scanComment(t.queryRow(ctx,
			commentSelect+" WHERE c.channel_name = ? AND m.thread_id = ? AND m.comment_id = ?",
			channelName, threadID, commentID))
		if errors.Is(err, sql.ErrNoRows) {
			return &types.NotFoundError{Kind: types.KindComment, Key: commentKey(channelName, threadID, commentID)}
		}
		if err != nil {
			return fmt.Errorf("getting comment %s: %w", commentKey(channelName, threadID, commentID), err)
		}
		return nil
	})
	return cm, err
}

// DeleteComment removes one comment. Sibling comments keep their ids.
func (b *Backend) DeleteComment(ctx context.Context, channelName string, threadID, commentID int64) error {
	return b.withTx(ctx, "delete comment", func(t *txn) error {
		th, err := threadByKey(ctx, t, channelName, threadID)
		if err != nil {
			return err
		}
		res, err := t.exec(ctx,
			"DELETE FROM comments WHERE channel_id = ? AND thread_id = ? AND comment_id = ?",
			th.ChannelID, th.ThreadID, commentID)
		if err != nil {
			return fmt.Errorf("deleting comment: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting comment: %w", err)
		}
		if n == 0 {
			return &types.NotFoundError{Kind: types.KindComment, Key: commentKey(channelName, threadID, commentID)}
		}
		return nil
	})
}

// ListComments returns the thread's comments ordered by CommentID.
func (b *Backend) ListComments(ctx context.Context, channelName string, threadID int64) ([]*types.Comment, error) {
	var comments []*types.Comment
	err := b.withTx(ctx, "list comments", func(t *txn) error {
		th, err := threadByKey(ctx, t, channelName, threadID)
		if err != nil {
			return err
		}

		rows, err := t.query(ctx,
			commentSelect+" WHERE m.channel_id = ? AND m.thread_id = ? ORDER BY m.comment_id",
			th.ChannelID, th.ThreadID)
		if err != nil {
			return fmt.Errorf("querying comments: %w", err)
		}
		defer rows.Close()

		comments = []*types.Comment{}
		for rows.Next() {
			cm, err := scanComment(rows)
			if err != nil {
				return fmt.Errorf("scanning comment: %w", err)
			}
			comments = append(comments, cm)
		}
		return rows.Err()
	})
	return comments, err
}
