package types

import "time"

// Thread is a discussion inside a channel. ThreadID is assigned by the store
// and is unique within the channel only.
//
// OwnerID and OwnerName record the author at creation time. They are kept
// as-is when the author's account is deleted.
type Thread struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	ThreadID    int64     `json:"thread_id"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	ThreadName  string    `json:"thread_name"`
	Description string    `json:"description"`
	PubDate     time.Time `json:"pub_date"`
}

// IsRecent reports whether the thread was published within RecentWindow of now.
func (t *Thread) IsRecent(now time.Time) bool {
	return IsRecent(t.PubDate, now)
}

func (t *Thread) String() string {
	return t.ThreadName
}
