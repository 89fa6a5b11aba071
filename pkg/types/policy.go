package types

// Removal policy. Staff may remove anything. A channel owner may remove the
// channel and anything in it, and moderators may remove threads and
// comments in their channel. Thread authors may remove their own threads.
// Comment authors may not remove their own comments.

// CanDeleteChannel reports whether actor may delete ch.
func CanDeleteChannel(actor *User, ch *Channel) bool {
	if actor == nil || ch == nil {
		return false
	}
	return actor.IsStaff || ch.OwnerID == actor.UserID
}

// CanDeleteThread reports whether actor may delete th, which lives in ch.
func CanDeleteThread(actor *User, ch *Channel, th *Thread) bool {
	if actor == nil || ch == nil || th == nil {
		return false
	}
	if canModerate(actor, ch) {
		return true
	}
	return th.OwnerID == actor.UserID
}

// CanDeleteComment reports whether actor may delete c, which lives in ch.
func CanDeleteComment(actor *User, ch *Channel, c *Comment) bool {
	if actor == nil || ch == nil || c == nil {
		return false
	}
	return canModerate(actor, ch)
}

func canModerate(actor *User, ch *Channel) bool {
	return actor.IsStaff || ch.OwnerID == actor.UserID || ch.IsModerator(actor.Username)
}
