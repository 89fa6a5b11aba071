package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/agora/pkg/types"
)

const msgRequired = "This field is required."

// Validate checks a candidate entity for required fields and uniqueness
// against what is stored, reporting every offending field at once.
// Validate treats the entity as not yet stored: a *Thread or *Comment whose
// id is already taken in its scope is reported as a collision.
func (b *Backend) Validate(ctx context.Context, entity any) error {
	return b.withTx(ctx, "validate", func(t *txn) error {
		switch e := entity.(type) {
		case *types.User:
			return checkUser(ctx, t, e)
		case *types.Channel:
			return checkChannel(ctx, t, e)
		case *types.Thread:
			verr := &types.ValidationError{}
			checkThreadFields(e, verr)
			if err := checkThreadKey(ctx, t, e, verr); err != nil {
				return err
			}
			return verr.Err()
		case *types.Comment:
			verr := &types.ValidationError{}
			checkCommentFields(e, verr)
			if err := checkCommentKey(ctx, t, e, verr); err != nil {
				return err
			}
			return verr.Err()
		default:
			return fmt.Errorf("validating %T: %w", entity, types.ErrInvalidEntity)
		}
	})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// exists runs a query that selects at most one row and reports whether it did.
func exists(ctx context.Context, t *txn, query string, args ...any) (bool, error) {
	var one int
	err := t.queryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func checkUser(ctx context.Context, t *txn, u *types.User) error {
	verr := &types.ValidationError{}
	switch {
	case blank(u.Username):
		verr.Add(types.FieldUsername, msgRequired)
	case utf8.RuneCountInString(u.Username) > types.MaxUsernameLength:
		verr.Add(types.FieldUsername, fmt.Sprintf("Ensure this value has at most %d characters.", types.MaxUsernameLength))
	default:
		taken, err := exists(ctx, t,
			"SELECT 1 FROM users WHERE username = ? AND user_id <> ?",
			u.Username, u.UserID)
		if err != nil {
			return fmt.Errorf("checking username: %w", err)
		}
		if taken {
			verr.Add(types.FieldUsername, "A user with that username already exists.")
		}
	}
	return verr.Err()
}

func checkChannel(ctx context.Context, t *txn, ch *types.Channel) error {
	verr := &types.ValidationError{}
	if blank(ch.ChannelName) {
		verr.Add(types.FieldChannelName, msgRequired)
	}
	if blank(ch.OwnerName) {
		verr.Add(types.FieldOwner, msgRequired)
	}
	if ch.PubDate.IsZero() {
		verr.Add(types.FieldPubDate, msgRequired)
	}
	checkModerators(ch.Moderators, verr)

	if !verr.Has(types.FieldChannelName) {
		taken, err := exists(ctx, t,
			"SELECT 1 FROM channels WHERE channel_name = ? AND channel_id <> ?",
			ch.ChannelName, ch.ChannelID)
		if err != nil {
			return fmt.Errorf("checking channel name: %w", err)
		}
		if taken {
			verr.Add(types.FieldChannelName, "Channel with this Channel name already exists.")
		}
	}
	return verr.Err()
}

func checkModerators(names []string, verr *types.ValidationError) {
	for _, name := range names {
		if blank(name) {
			verr.Add(types.FieldModerators, "Moderator usernames must not be blank.")
			return
		}
	}
}

func checkThreadFields(th *types.Thread, verr *types.ValidationError) {
	if blank(th.ChannelName) {
		verr.Add(types.FieldChannel, msgRequired)
	}
	if blank(th.OwnerName) {
		verr.Add(types.FieldOwner, msgRequired)
	}
	if blank(th.ThreadName) {
		verr.Add(types.FieldThreadName, msgRequired)
	}
	if th.PubDate.IsZero() {
		verr.Add(types.FieldPubDate, msgRequired)
	}
}

// checkThreadKey reports a clash on (channel, thread_id) against both fields.
func checkThreadKey(ctx context.Context, t *txn, th *types.Thread, verr *types.ValidationError) error {
	if verr.Has(types.FieldChannel) {
		return nil
	}
	taken, err := exists(ctx, t,
		`SELECT 1 FROM threads t JOIN channels c ON c.channel_id = t.channel_id
		WHERE c.channel_name = ? AND t.thread_id = ?`,
		th.ChannelName, th.ThreadID)
	if err != nil {
		return fmt.Errorf("checking thread id: %w", err)
	}
	if taken {
		const msg = "Thread with this Channel and Thread id already exists."
		verr.Add(types.FieldChannel, msg)
		verr.Add(types.FieldThreadID, msg)
	}
	return nil
}

func checkCommentFields(c *types.Comment, verr *types.ValidationError) {
	if blank(c.ChannelName) || c.ThreadID < 0 {
		verr.Add(types.FieldThread, msgRequired)
	}
	if blank(c.OwnerName) {
		verr.Add(types.FieldOwner, msgRequired)
	}
	if blank(c.Text) {
		verr.Add(types.FieldText, msgRequired)
	}
	if c.PubDate.IsZero() {
		verr.Add(types.FieldPubDate, msgRequired)
	}
}

// checkCommentKey reports a clash on (thread, comment_id) against both fields.
func checkCommentKey(ctx context.Context, t *txn, c *types.Comment, verr *types.ValidationError) error {
	if verr.Has(types.FieldThread) {
		return nil
	}
	taken, err := exists(ctx, t,
		`SELECT 1 FROM comments m JOIN channels c ON c.channel_id = m.channel_id
		WHERE c.channel_name = ? AND m.thread_id = ? AND m.comment_id = ?`,
		c.ChannelName, c.ThreadID, c.CommentID)
	if err != nil {
		return fmt.Errorf("checking comment id: %w", err)
	}
	if taken {
		const msg = "Comment with this Thread and Comment id already exists."
		verr.Add(types.FieldThread, msg)
		verr.Add(types.FieldCommentID, msg)
	}
	return nil
}
