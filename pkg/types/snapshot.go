package types

// Snapshot is a consistent view of every channel with its threads and
// comments, read in one transaction.
type Snapshot struct {
	Channels []ChannelTree `json:"channels"`
}

// ChannelTree is a channel with its threads ordered by ThreadID.
type ChannelTree struct {
	Channel *Channel     `json:"channel"`
	Threads []ThreadTree `json:"threads"`
}

// ThreadTree is a thread with its comments ordered by CommentID.
type ThreadTree struct {
	Thread   *Thread    `json:"thread"`
	Comments []*Comment `json:"comments"`
}
