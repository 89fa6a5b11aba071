package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/agora/internal/ownership"
	"github.com/mesh-intelligence/agora/pkg/types"
)

const userColumns = "user_id, username, is_staff, created_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*types.User, error) {
	var (
		u       types.User
		staff   int64
		created string
	)
	if err := row.Scan(&u.UserID, &u.Username, &staff, &created); err != nil {
		return nil, err
	}
	u.IsStaff = staff != 0

	var err error
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &u, nil
}

func userByName(ctx context.Context, t *txn, username string) (*types.User, error) {
	u, err := scanUser(t.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &types.NotFoundError{Kind: types.KindUser, Key: username}
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", username, err)
	}
	return u, nil
}

// txDirectory looks users up inside an open transaction.
type txDirectory struct {
	t *txn
}

func (d txDirectory) UserByName(ctx context.Context, username string) (*types.User, error) {
	return userByName(ctx, d.t, username)
}

// CreateUser stores u, assigning UserID and CreatedAt. u is left as it was
// when the create fails.
func (b *Backend) CreateUser(ctx context.Context, u *types.User) error {
	var stored types.User
	err := b.withTx(ctx, "create user", func(t *txn) error {
		id, err := generateUUID()
		if err != nil {
			return err
		}
		stored = *u
		stored.UserID = id
		if err := checkUser(ctx, t, &stored); err != nil {
			return err
		}
		stored.CreatedAt = b.timestamp()

		_, err = t.exec(ctx,
			"INSERT INTO users (user_id, username, is_staff, created_at) VALUES (?, ?, ?, ?)",
			stored.UserID, stored.Username, boolToInt(stored.IsStaff), formatTime(stored.CreatedAt))
		if err != nil {
			return fmt.Errorf("inserting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	*u = stored
	return nil
}

// GetUser returns the user with the given username.
func (b *Backend) GetUser(ctx context.Context, username string) (*types.User, error) {
	var u *types.User
	err := b.withTx(ctx, "get user", func(t *txn) error {
		var err error
		u, err = userByName(ctx, t, username)
		return err
	})
	return u, err
}

// DeleteUser removes the user, handing each owned channel to its first
// existing moderator or deleting it with its contents when there is none.
// All of it happens in one transaction.
func (b *Backend) DeleteUser(ctx context.Context, username string) error {
	var (
		passed  []passOff
		removed []string
	)
	err := b.withTx(ctx, "delete user", func(t *txn) error {
		passed, removed = nil, nil

		u, err := userByName(ctx, t, username)
		if err != nil {
			return err
		}

		owned, err := channelsOwnedBy(ctx, t, u.UserID)
		if err != nil {
			return err
		}
		for _, ch := range owned {
			successor, err := ownership.Resolve(ctx, txDirectory{t: t}, ch, u)
			if err != nil {
				return err
			}
			if successor != nil {
				if err := reassignChannel(ctx, t, ch.ChannelID, successor); err != nil {
					return err
				}
				passed = append(passed, passOff{channel: ch.ChannelName, to: successor.Username})
				continue
			}
			if _, err := deleteChannelTree(ctx, t, ch.ChannelID); err != nil {
				return err
			}
			removed = append(removed, ch.ChannelName)
		}

		if _, err := t.exec(ctx, "DELETE FROM user_settings WHERE user_id = ?", u.UserID); err != nil {
			return fmt.Errorf("deleting user settings: %w", err)
		}
		if _, err := t.exec(ctx, "DELETE FROM users WHERE user_id = ?", u.UserID); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range passed {
		b.logger.Info().Str("channel", p.channel).Str("from", username).Str("to", p.to).Msg("channel passed to moderator")
	}
	for _, name := range removed {
		b.logger.Info().Str("channel", name).Str("owner", username).Msg("channel deleted with its owner")
	}
	b.logger.Info().Str("username", username).Msg("user deleted")
	return nil
}

type passOff struct {
	channel string
	to      string
}

// CreateUserSettings stores settings for an existing user. A user has at
// most one settings record.
func (b *Backend) CreateUserSettings(ctx context.Context, s *types.UserSettings) error {
	return b.withTx(ctx, "create user settings", func(t *txn) error {
		if blank(s.Username) {
			verr := &types.ValidationError{}
			verr.Add(types.FieldUser, msgRequired)
			return verr
		}
		u, err := userByName(ctx, t, s.Username)
		if err != nil {
			return err
		}

		taken, err := exists(ctx, t, "SELECT 1 FROM user_settings WHERE user_id = ?", u.UserID)
		if err != nil {
			return fmt.Errorf("checking user settings: %w", err)
		}
		if taken {
			verr := &types.ValidationError{}
			verr.Add(types.FieldUser, "User settings with this User already exists.")
			return verr
		}

		attrs, err := encodeAttributes(s.Attributes)
		if err != nil {
			return err
		}
		if _, err := t.exec(ctx,
			"INSERT INTO user_settings (user_id, attributes) VALUES (?, ?)",
			u.UserID, attrs); err != nil {
			return fmt.Errorf("inserting user settings: %w", err)
		}
		s.UserID = u.UserID
		if s.Attributes == nil {
			s.Attributes = map[string]string{}
		}
		return nil
	})
}

// GetUserSettings returns the settings of the named user.
func (b *Backend) GetUserSettings(ctx context.Context, username string) (*types.UserSettings, error) {
	var s *types.UserSettings
	err := b.withTx(ctx, "get user settings", func(t *txn) error {
		var (
			settings types.UserSettings
			attrs    string
		)
		err := t.queryRow(ctx,
			`SELECT s.user_id, u.username, s.attributes
			FROM user_settings s JOIN users u ON u.user_id = s.user_id
			WHERE u.username = ?`, username).Scan(&settings.UserID, &settings.Username, &attrs)
		if errors.Is(err, sql.ErrNoRows) {
			return &types.NotFoundError{Kind: types.KindUserSettings, Key: username}
		}
		if err != nil {
			return fmt.Errorf("getting user settings %s: %w", username, err)
		}
		if settings.Attributes, err = decodeAttributes(attrs); err != nil {
			return err
		}
		s = &settings
		return nil
	})
	return s, err
}
