package types

import "time"

// Comment is a message posted in a thread. CommentID is unique within the
// thread only; a comment is addressed by channel name, thread id, and
// comment id together.
type Comment struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	ThreadID    int64     `json:"thread_id"`
	CommentID   int64     `json:"comment_id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Text        string    `json:"text"`
	PubDate     time.Time `json:"pub_date"`
}

// IsRecent reports whether the comment was published within RecentWindow of now.
func (c *Comment) IsRecent(now time.Time) bool {
	return IsRecent(c.PubDate, now)
}

func (c *Comment) String() string {
	return c.Text
}
