package types

import "context"

// Forum is the storage interface for users, channels, threads, and comments.
// Callers attach to a backend, run operations, and detach when done.
//
// Create operations fill in store-assigned fields (ids, owner ids, creation
// times) on the entity they are given. Every create runs the same checks as
// Validate and fails with *ValidationError listing all offending fields.
// Operations that reference a missing entity fail with *NotFoundError.
// Conflicts that persist after the configured retries surface as
// *StorageError.
type Forum interface {
	// Attach connects the Forum to the backend described by config and
	// creates the schema if needed. Returns ErrAlreadyAttached if called
	// while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// operations return ErrDetached.
	Detach() error

	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, username string) (*User, error)

	// DeleteUser removes the user and their settings. Each channel the
	// user owns passes to its first existing moderator, or is deleted with
	// all its threads and comments when no moderator exists. Threads and
	// comments the user wrote in other channels are kept.
	DeleteUser(ctx context.Context, username string) error

	CreateUserSettings(ctx context.Context, s *UserSettings) error
	GetUserSettings(ctx context.Context, username string) (*UserSettings, error)

	// CreateChannel stores a new channel owned by ch.OwnerName. The
	// moderator list always starts empty.
	CreateChannel(ctx context.Context, ch *Channel) error
	GetChannel(ctx context.Context, name string) (*Channel, error)

	// SetModerators replaces the channel's moderator list, keeping order.
	SetModerators(ctx context.Context, name string, moderators []string) (*Channel, error)

	// DeleteChannel removes the channel with all its threads and comments.
	DeleteChannel(ctx context.Context, name string) error

	// ListChannels returns all channels in creation order.
	ListChannels(ctx context.Context) ([]*Channel, error)

	// CreateThread assigns th.ThreadID as one past the highest id ever
	// used in the channel, starting at 0.
	CreateThread(ctx context.Context, th *Thread) error
	GetThread(ctx context.Context, channelName string, threadID int64) (*Thread, error)

	// DeleteThread removes the thread and its comments. Other threads in
	// the channel are untouched.
	DeleteThread(ctx context.Context, channelName string, threadID int64) error

	// ListThreads returns the channel's threads ordered by ThreadID.
	ListThreads(ctx context.Context, channelName string) ([]*Thread, error)

	// CreateComment assigns c.CommentID as one past the highest id ever
	// used in the thread, starting at 0.
	CreateComment(ctx context.Context, c *Comment) error
	GetComment(ctx context.Context, channelName string, threadID, commentID int64) (*Comment, error)
	DeleteComment(ctx context.Context, channelName string, threadID, commentID int64) error

	// ListComments returns the thread's comments ordered by CommentID.
	ListComments(ctx context.Context, channelName string, threadID int64) ([]*Comment, error)

	// Snapshot returns every channel, thread, and comment as of a single
	// point in time. Channels are in creation order.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Validate checks a candidate *User, *Channel, *Thread, or *Comment
	// for required fields and uniqueness without storing it.
	Validate(ctx context.Context, entity any) error
}
