package types

import (
	"slices"
	"time"
)

// Channel is a named topic area that contains threads.
//
// ChannelName is globally unique and compared case-sensitively. OwnerID and
// OwnerName always refer to an existing user; when that user is deleted the
// channel passes to a moderator or is deleted with its contents.
// Moderators holds usernames in the order they were assigned.
type Channel struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Moderators  []string  `json:"moderators"`
	PubDate     time.Time `json:"pub_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsModerator reports whether username appears in the moderator list.
func (c *Channel) IsModerator(username string) bool {
	return slices.Contains(c.Moderators, username)
}

// IsRecent reports whether the channel was published within RecentWindow of now.
func (c *Channel) IsRecent(now time.Time) bool {
	return IsRecent(c.PubDate, now)
}

func (c *Channel) String() string {
	return c.ChannelName
}
