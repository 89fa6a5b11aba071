package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/pkg/types"
)

const channelColumns = "channel_id, channel_name, description, owner_id, owner_name, moderators, pub_date, created_at"

func scanChannel(row rowScanner) (*types.Channel, error) {
	var ch types.Channel
	var moderators, pubDate, created string
	if err := row.Scan(&ch.ChannelID, &ch.ChannelName, &ch.Description,
		&ch.OwnerID, &ch.OwnerName, &moderators, &pubDate, &created); err != nil {
		return nil, err
	}

	var err error
	if ch.Moderators, err = decodeModerators(moderators); err != nil {
		return nil, err
	}
	if ch.PubDate, err = parseTime(pubDate); err != nil {
		return nil, err
	}
	if ch.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &ch, nil
}

func channelByName(ctx context.Context, t *txn, name string) (*types.Channel, error) {
	ch, err := scanChannel(t.queryRow(ctx, "SELECT "+channelColumns+" FROM channels WHERE channel_name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &types.NotFoundError{Kind: types.KindChannel, Key: name}
	}
	if err != nil {
		return nil, fmt.Errorf("getting channel %s: %w", name, err)
	}
	return ch, nil
}

func collectChannels(rows *sql.Rows) ([]*types.Channel, error) {
	defer rows.Close()

	channels := []*types.Channel{}
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating channels: %w", err)
	}
	return channels, nil
}

// channelsOwnedBy returns the user's channels in creation order.
func channelsOwnedBy(ctx context.Context, t *txn, userID string) ([]*types.Channel, error) {
	rows, err := t.query(ctx,
		"SELECT "+channelColumns+" FROM channels WHERE owner_id = ? ORDER BY created_at, channel_name",
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying owned channels: %w", err)
	}
	return collectChannels(rows)
}

// CreateChannel stores ch owned by the user named ch.OwnerName. ChannelID,
// OwnerID, and CreatedAt are assigned and the moderator list starts empty.
// ch is left as it was when the create fails.
func (b *Backend) CreateChannel(ctx context.Context, ch *types.Channel) error {
	var stored types.Channel
	err := b.withTx(ctx, "create channel", func(t *txn) error {
		id, err := generateUUID()
		if err != nil {
			return err
		}
		stored = *ch
		stored.ChannelID = id
		stored.Moderators = []string{}
		if err := checkChannel(ctx, t, &stored); err != nil {
			return err
		}

		owner, err := userByName(ctx, t, stored.OwnerName)
		if err != nil {
			return err
		}
		stored.OwnerID = owner.UserID
		stored.PubDate = stored.PubDate.UTC()
		stored.CreatedAt = b.timestamp()

		_, err = t.exec(ctx,
			`INSERT INTO channels (channel_id, channel_name, description, owner_id, owner_name,
			moderators, pub_date, created_at, next_thread_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0)`,
			stored.ChannelID, stored.ChannelName, stored.Description, stored.OwnerID, stored.OwnerName,
			"[]", formatTime(stored.PubDate), formatTime(stored.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting channel: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*ch = stored
	return nil
}

// GetChannel returns the channel with the given name.
func (b *Backend) GetChannel(ctx context.Context, name string) (*types.Channel, error) {
	var ch *types.Channel
	err := b.withTx(ctx, "get channel", func(t *txn) error {
		var err error
		ch, err = channelByName(ctx, t, name)
		return err
	})
	return ch, err
}

// SetModerators replaces the moderator list. Order is kept and repeated
// names are dropped. Moderators need not name existing users; ownership
// pass-off skips those that do not.
func (b *Backend) SetModerators(ctx context.Context, name string, moderators []string) (*types.Channel, error) {
	verr := &types.ValidationError{}
	checkModerators(moderators, verr)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	list := make([]string, 0, len(moderators))
	seen := make(map[string]bool, len(moderators))
	for _, m := range moderators {
		if !seen[m] {
			seen[m] = true
			list = append(list, m)
		}
	}
	encoded, err := encodeModerators(list)
	if err != nil {
		return nil, err
	}

	var ch *types.Channel
	err = b.withTx(ctx, "set moderators", func(t *txn) error {
		var err error
		if ch, err = channelByName(ctx, t, name); err != nil {
			return err
		}
		if _, err := t.exec(ctx, "UPDATE channels SET moderators = ? WHERE channel_id = ?", encoded, ch.ChannelID); err != nil {
			return fmt.Errorf("updating moderators: %w", err)
		}
		ch.Moderators = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// DeleteChannel removes the channel and every thread and comment in it.
func (b *Backend) DeleteChannel(ctx context.Context, name string) error {
	var n removal
	err := b.withTx(ctx, "delete channel", func(t *txn) error {
		ch, err := channelByName(ctx, t, name)
		if err != nil {
			return err
		}
		n, err = deleteChannelTree(ctx, t, ch.ChannelID)
		return err
	})
	if err != nil {
		return err
	}
	b.logger.Info().Str("channel", name).Int64("threads", n.threads).Int64("comments", n.comments).Msg("channel deleted")
	return nil
}

// ListChannels returns every channel in creation order.
func (b *Backend) ListChannels(ctx context.Context) ([]*types.Channel, error) {
	var channels []*types.Channel
	err := b.withTx(ctx, "list channels", func(t *txn) error {
		rows, err := t.query(ctx, "SELECT "+channelColumns+" FROM channels ORDER BY created_at, channel_name")
		if err != nil {
			return fmt.Errorf("querying channels: %w", err)
		}
		channels, err = collectChannels(rows)
		return err
	})
	return channels, err
}
