package types

import "time"

// RecentWindow is how far before now a publication date may lie and still
// count as recent.
const RecentWindow = 24 * time.Hour

// IsRecent reports whether pubDate lies in [now-RecentWindow, now].
// Dates after now are never recent.
func IsRecent(pubDate, now time.Time) bool {
	if pubDate.After(now) {
		return false
	}
	return !pubDate.Before(now.Add(-RecentWindow))
}
