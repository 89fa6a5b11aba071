package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema DDL shared by SQLite and PostgreSQL. Timestamps are stored as
// fixed-width UTC text (see timeLayout) so that text order is time order.
//
// Threads and comments keep owner_id without a foreign key: they outlive
// the author's account. Children are removed explicitly by the cascade
// routines rather than by ON DELETE CASCADE.
const (
	createUsers = `CREATE TABLE IF NOT EXISTS users (
    user_id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    is_staff INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
)`

	createUserSettings = `CREATE TABLE IF NOT EXISTS user_settings (
    user_id TEXT PRIMARY KEY,
    attributes TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(user_id)
)`

	createChannels = `CREATE TABLE IF NOT EXISTS channels (
    channel_id TEXT PRIMARY KEY,
    channel_name TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    owner_name TEXT NOT NULL,
    moderators TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    created_at TEXT NOT NULL,
    next_thread_id BIGINT NOT NULL DEFAULT 0,
    FOREIGN KEY (owner_id) REFERENCES users(user_id)
)`

	createThreads = `CREATE TABLE IF NOT EXISTS threads (
    channel_id TEXT NOT NULL,
    thread_id BIGINT NOT NULL,
    owner_id TEXT NOT NULL,
    owner_name TEXT NOT NULL,
    thread_name TEXT NOT NULL,
    description TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    next_comment_id BIGINT NOT NULL DEFAULT 0,
    PRIMARY KEY (channel_id, thread_id),
    FOREIGN KEY (channel_id) REFERENCES channels(channel_id)
)`

	createComments = `CREATE TABLE IF NOT EXISTS comments (
    channel_id TEXT NOT NULL,
    thread_id BIGINT NOT NULL,
    comment_id BIGINT NOT NULL,
    owner_id TEXT NOT NULL,
    owner_name TEXT NOT NULL,
    text TEXT NOT NULL,
    pub_date TEXT NOT NULL,
    PRIMARY KEY (channel_id, thread_id, comment_id),
    FOREIGN KEY (channel_id, thread_id) REFERENCES threads(channel_id, thread_id)
)`
)

// Index DDL for common queries.
const (
	idxChannelsOwner   = `CREATE INDEX IF NOT EXISTS idx_channels_owner ON channels(owner_id)`
	idxChannelsCreated = `CREATE INDEX IF NOT EXISTS idx_channels_created ON channels(created_at, channel_name)`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createUsers,
	createUserSettings,
	createChannels,
	createThreads,
	createComments,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxChannelsOwner,
	idxChannelsCreated,
}

// createSchema runs every DDL statement. Statements are idempotent, so an
// existing database is left as it is.
func createSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}
