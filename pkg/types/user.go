package types

import "time"

// MaxUsernameLength is the longest username Validate accepts.
const MaxUsernameLength = 150

// User is a forum account. Username is unique and never changes.
type User struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSettings holds per-user preferences. Each user has at most one
// UserSettings and it is removed together with the user.
type UserSettings struct {
	UserID     string            `json:"user_id"`
	Username   string            `json:"username"`
	Attributes map[string]string `json:"attributes"`
}

// String returns the username the settings belong to.
func (s *UserSettings) String() string {
	return s.Username
}
